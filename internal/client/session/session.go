package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/blogcli/internal/client/api"
	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
	"github.com/dmitrijs2005/blogcli/internal/client/models"
	"github.com/dmitrijs2005/blogcli/internal/logging"
)

// Manager owns the session state machine and the public lifecycle
// operations. It is constructed once at application start and passed by
// reference to consumers; only the manager and the API client's refresh
// protocol ever write tokens.
type Manager struct {
	api    *api.Client
	creds  credentials.Store
	log    logging.Logger
	notify func(msg string)

	mu         sync.RWMutex
	state      State
	loggingOut bool
}

// NewManager wires the manager to the API client's session-expired hook.
// notify, when non-nil, receives user-facing notices such as the
// "session expired" message; it must not call back into the manager.
func NewManager(apiClient *api.Client, creds credentials.Store, log logging.Logger, notify func(msg string)) *Manager {
	m := &Manager{
		api:    apiClient,
		creds:  creds,
		log:    log,
		notify: notify,
		state:  State{Phase: PhaseBootstrapping},
	}
	apiClient.OnSessionExpired(m.handleSessionExpired)
	return m
}

// State returns the current session snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns the cached profile, or nil when not authenticated.
func (m *Manager) User() *models.User {
	return m.State().User
}

// IsAuthenticated reports whether a user is currently logged in.
func (m *Manager) IsAuthenticated() bool {
	return m.State().Phase == PhaseAuthenticated
}

// Do exposes the authorized request wrapper so feature code gets the same
// refresh-and-retry behavior without reimplementing it.
func (m *Manager) Do(ctx context.Context, req api.Request, out any) error {
	return m.api.Do(ctx, req, out)
}

// Bootstrap resolves the stored credentials into a session. It runs once at
// startup and is safe to call again later; each call makes at most one /me
// round trip when the access token is still valid.
//
// With no credentials stored at all it resolves to anonymous without any
// network traffic. If ctx is cancelled before completion the state is left
// untouched, so a disposed caller never observes a late transition.
func (m *Manager) Bootstrap(ctx context.Context) error {
	access, err := m.creds.Get(ctx, credentials.KindAccess)
	if err != nil {
		return err
	}
	refresh, err := m.creds.Get(ctx, credentials.KindRefresh)
	if err != nil {
		return err
	}
	if access == "" && refresh == "" {
		m.setState(State{Phase: PhaseAnonymous})
		return nil
	}

	user, err := m.api.Me(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			m.log.Warn(ctx, "bootstrap failed, server unreachable", "err", err)
			m.setState(State{Phase: PhaseAnonymous, Err: "could not reach the server"})
			return err
		}
		// Unauthorized after the allowed refresh, or refresh exhausted.
		// The teardown hook has already fired if needed.
		m.log.Info(ctx, "stored credentials rejected, starting anonymous")
		m.setState(State{Phase: PhaseAnonymous})
		return nil
	}

	m.setState(State{Phase: PhaseAuthenticated, User: user})
	m.log.Info(ctx, "session restored", "user", user.Email)
	return nil
}

// Login authenticates with the backend and, on success, stores the returned
// credential pair and caches the profile. A rejected login leaves stored
// credentials and the anonymous state untouched; the backend's message is
// recorded for display. Never retried.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.setError(userMessage(err))
		return err
	}

	if err := m.creds.SetPair(ctx, result.AccessToken, result.RefreshToken); err != nil {
		return err
	}

	m.setState(State{Phase: PhaseAuthenticated, User: result.User})
	m.log.Info(ctx, "logged in", "user", email)
	return nil
}

// Register submits the registration form and, on success, logs the new user
// in with the same credentials.
func (m *Manager) Register(ctx context.Context, in api.RegisterInput) error {
	if err := m.api.Register(ctx, in); err != nil {
		m.setError(userMessage(err))
		return err
	}
	return m.Login(ctx, in.Email, in.Password)
}

// Logout clears the stored credential pair and resets the session to
// anonymous. The backend revocation call is best effort; a network failure
// must never leave the user locked into a half-logged-out state.
func (m *Manager) Logout(ctx context.Context) error {
	// The revocation call can itself come back unauthorized and trip the
	// expiry hook; a deliberate logout must not read as a surprise expiry.
	m.mu.Lock()
	m.loggingOut = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.loggingOut = false
		m.mu.Unlock()
	}()

	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn(ctx, "backend logout failed, clearing local session anyway", "err", err)
	}

	// Local teardown proceeds even when ctx is already cancelled.
	if err := m.creds.Clear(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	m.setState(State{Phase: PhaseAnonymous})
	m.log.Info(ctx, "logged out")
	return nil
}

// handleSessionExpired is invoked by the API client when a token refresh
// fails mid-request. Credentials are cleared here (the refresh protocol never
// does it), and the user is notified only if they were actually logged in;
// anonymous browsing must not produce "session expired" noise.
func (m *Manager) handleSessionExpired() {
	m.mu.Lock()
	announce := m.state.Phase == PhaseAuthenticated && !m.loggingOut
	m.state = State{Phase: PhaseAnonymous}
	m.mu.Unlock()

	ctx := context.Background()
	if err := m.creds.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear credentials on session expiry", "err", err)
	}

	if announce {
		m.log.Info(ctx, "session expired, logged out")
		if m.notify != nil {
			m.notify("Your session has expired. Please log in again.")
		}
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Err = msg
}

// userMessage extracts a display-safe message from an API error. Raw
// transport errors are replaced with a generic notice.
func userMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrUnavailable) {
		return "could not reach the server"
	}
	return "something went wrong, please try again"
}
