// Package session holds the client's authentication state machine.
//
// A session moves Bootstrapping → {Authenticated, Anonymous}, falls back to
// Anonymous on logout or when a token refresh is exhausted, and returns to
// Authenticated only through a successful login. Only the credential pair
// persists across restarts; the state itself is rebuilt by Bootstrap.
package session
