package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
)

func TestLogin_ReturnsPairAndProfileWithoutStoring(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))

		var req loginRequest
		require.NoError(t, decodeBody(r.Body, &req))
		require.Equal(t, "ann@example.com", req.Email)
		require.Equal(t, "secret", req.Password)

		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken":  "A1",
			"refreshToken": "R1",
			"user":         map[string]string{"id": "u1", "name": "Ann", "email": "ann@example.com"},
		})
	}))
	defer srv.Close()

	store := newMemStore()
	c := New(srv.URL, store, testLogger())

	result, err := c.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "A1", result.AccessToken)
	require.Equal(t, "R1", result.RefreshToken)
	require.Equal(t, "Ann", result.User.Name)

	// Storing the pair is the session manager's call, not Login's.
	access, _ := store.Get(context.Background(), credentials.KindAccess)
	require.Empty(t, access)
}

func TestLogin_RejectedCarriesBackendMessageAndNeverRefreshes(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc("/api/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "A1", "R1"))
	c := New(srv.URL, store, testLogger())

	_, err := c.Login(context.Background(), "ann@example.com", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Zero(t, atomic.LoadInt32(&refreshCalls))
}

func TestRegister_SubmitsMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "Ann", r.FormValue("name"))
		require.Equal(t, "ann@example.com", r.FormValue("email"))
		require.Equal(t, "secret", r.FormValue("password"))

		file, header, err := r.FormFile("avatarUrl")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "avatar.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, []byte("png-bytes"), data)

		writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
	}))
	defer srv.Close()

	c := New(srv.URL, newMemStore(), testLogger())
	err := c.Register(context.Background(), RegisterInput{
		Name:       "Ann",
		Email:      "ann@example.com",
		Password:   "secret",
		AvatarName: "avatar.png",
		Avatar:     bytes.NewReader([]byte("png-bytes")),
	})
	require.NoError(t, err)
}

func TestRegister_AvatarIsOptional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("avatarUrl")
		require.Error(t, err)
		writeJSON(w, http.StatusCreated, map[string]string{"message": "created"})
	}))
	defer srv.Close()

	c := New(srv.URL, newMemStore(), testLogger())
	err := c.Register(context.Background(), RegisterInput{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
}

func TestLogout_GoesThroughAuthorizedWrapper(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]string{"message": "bye"})
	}))
	defer srv.Close()

	store := newMemStore()
	require.NoError(t, store.SetPair(context.Background(), "A1", "R1"))
	c := New(srv.URL, store, testLogger())

	require.NoError(t, c.Logout(context.Background()))
	require.Equal(t, "Bearer A1", gotAuth)
}

func decodeBody(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
