package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/blogcli/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the backend's answer to a successful login.
type AuthResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

// Login exchanges email/password for a credential pair and the user profile.
// It bypasses Do on purpose: a rejected login is a user error, never a
// refresh trigger, and is not retried. Tokens are not stored here; the
// session manager owns that decision.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	req := Request{
		Method: http.MethodPost,
		Path:   loginPath,
		JSON:   loginRequest{Email: email, Password: password},
	}

	status, body, err := c.send(ctx, req, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}

	var result AuthResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	return &result, nil
}

// RegisterInput is the multipart registration form. Avatar is optional;
// when set, AvatarName should carry the original file name.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	AvatarName string
	Avatar     io.Reader
}

// Register submits the registration form. Like Login it bypasses Do: the
// endpoint is unauthenticated and failures carry a user-facing message.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to build registration form: %w", err)
		}
	}
	if in.Avatar != nil {
		part, err := w.CreateFormFile("avatarUrl", in.AvatarName)
		if err != nil {
			return fmt.Errorf("failed to build registration form: %w", err)
		}
		if _, err := io.Copy(part, in.Avatar); err != nil {
			return fmt.Errorf("failed to read avatar: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build registration form: %w", err)
	}

	req := Request{
		Method: http.MethodPost,
		Path:   registerPath,
		Raw:    buf.Bytes(),
		Header: http.Header{"Content-Type": []string{w.FormDataContentType()}},
	}

	status, body, err := c.send(ctx, req, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return newAPIError(status, body)
	}
	return nil
}

type meResponse struct {
	User *models.User `json:"user"`
}

// Me fetches the current user's profile through the authorized wrapper.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp meResponse
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: mePath}, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout tells the backend to revoke the session. Best effort: callers must
// clear local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: logoutPath}, nil)
}
