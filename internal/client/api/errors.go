package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrUnavailable marks a transport-level failure: the server could not
	// be reached or did not answer in time.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is reported when a request is still rejected as
	// unauthorized after the one allowed refresh and retry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoRefreshCredential means a refresh was needed but no refresh token
	// is stored. Treated as "never logged in"; no network call is made.
	ErrNoRefreshCredential = errors.New("no refresh credential")

	// ErrRefreshRejected means the refresh endpoint rejected the refresh
	// token (or could not be reached). The caller is responsible for
	// tearing the session down; the protocol never clears tokens itself.
	ErrRefreshRejected = errors.New("refresh rejected")
)

// APIError is a non-2xx response from the backend. Message is taken from the
// backend's {"message": ...} body when present and is suitable for direct
// display to the user.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is supports errors.Is(err, ErrUnauthorized) for 401/403 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && isUnauthorizedStatus(e.Status)
}

func isUnauthorizedStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// newAPIError builds an APIError from a response body, falling back to the
// generic status text when the body carries no message.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: payload.Message}
}
