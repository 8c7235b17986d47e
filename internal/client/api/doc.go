// Package api implements the REST client for the blog backend.
//
// The central piece is the authorized request wrapper (Client.Do): it injects
// the current bearer token, and on a 401/403 runs the token refresh protocol
// once and retries the request exactly once. Refresh exchanges are coalesced
// so that concurrent requests hitting an expired token share a single
// in-flight refresh instead of racing a possibly single-use refresh token.
//
// Login, Register and the refresh exchange itself deliberately bypass the
// wrapper: they are unauthenticated calls whose failures must reach the user
// untouched.
package api
