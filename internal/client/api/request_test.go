package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
	"github.com/dmitrijs2005/blogcli/internal/logging"
)

// memStore is an in-memory credentials.Store for tests.
type memStore struct {
	mu sync.Mutex
	m  map[credentials.Kind]string
}

func newMemStore() *memStore {
	return &memStore{m: make(map[credentials.Kind]string)}
}

func (s *memStore) Get(_ context.Context, kind credentials.Kind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[kind], nil
}

func (s *memStore) Set(_ context.Context, kind credentials.Kind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[kind] = value
	return nil
}

func (s *memStore) SetPair(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[credentials.KindAccess] = access
	s.m[credentials.KindRefresh] = refresh
	return nil
}

func (s *memStore) Delete(_ context.Context, kind credentials.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, kind)
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[credentials.Kind]string)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDo_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		writeJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), credentials.KindAccess, "A1"))
	c := New(srv.URL, store, testLogger())

	var out map[string]string
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/posts"}, &out)
	require.NoError(t, err)
	require.Equal(t, "Bearer A1", gotAuth)
	require.NotEmpty(t, gotReqID)
	require.Equal(t, "yes", out["ok"])
}

func TestDo_NoBearerWhenNoToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	c := New(srv.URL, newMemStore(), testLogger())
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/posts"}, nil)
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestDo_RefreshesOnUnauthorizedThenRetries(t *testing.T) {
	var meCalls, refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls++
		if r.Header.Get("Authorization") != "Bearer A2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u1", "name": "Ann"}})
	})
	mux.HandleFunc("/api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var req refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "R1", req.RefreshToken)
		writeJSON(w, http.StatusOK, refreshResponse{AccessToken: "A2", RefreshToken: "R2"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "expired", "R1"))
	c := New(srv.URL, store, testLogger())

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, 2, meCalls)
	require.Equal(t, 1, refreshCalls)

	access, _ := store.Get(context.Background(), credentials.KindAccess)
	refresh, _ := store.Get(context.Background(), credentials.KindRefresh)
	require.Equal(t, "A2", access)
	require.Equal(t, "R2", refresh)
}

func TestDo_ForbiddenAlsoTriggersRefresh(t *testing.T) {
	var refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer A2" {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "forbidden"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": []any{}})
	})
	mux.HandleFunc("/api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeJSON(w, http.StatusOK, refreshResponse{AccessToken: "A2"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "stale", "R1"))
	c := New(srv.URL, store, testLogger())

	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/posts"}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, refreshCalls)
}

func TestDo_RetryUnauthorizedIsFinal(t *testing.T) {
	var meCalls, refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	})
	mux.HandleFunc("/api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		writeJSON(w, http.StatusOK, refreshResponse{AccessToken: "A2", RefreshToken: "R2"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "A1", "R1"))
	c := New(srv.URL, store, testLogger())

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	// Exactly one refresh and one retry; the retry's 401 is final.
	require.Equal(t, 2, meCalls)
	require.Equal(t, 1, refreshCalls)
}

func TestDo_RefreshFailureFiresTeardownAndKeepsOriginalStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})
	mux.HandleFunc("/api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "refresh token revoked"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "A1", "R1"))
	c := New(srv.URL, store, testLogger())

	var expired bool
	c.OnSessionExpired(func() { expired = true })

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	require.True(t, expired)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "token expired", apiErr.Message)

	// The protocol itself never clears credentials; that is the hook
	// owner's job.
	refresh, _ := store.Get(context.Background(), credentials.KindRefresh)
	require.Equal(t, "R1", refresh)
}

func TestDo_OtherStatusesPassThrough(t *testing.T) {
	var refreshCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	mux.HandleFunc("/api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "A1", "R1"))
	c := New(srv.URL, store, testLogger())

	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/posts"}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "boom", apiErr.Message)
	require.False(t, errors.Is(err, ErrUnauthorized))
	require.Equal(t, 0, refreshCalls)
}

func TestDo_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, newMemStore(), testLogger())
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/posts"}, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}
