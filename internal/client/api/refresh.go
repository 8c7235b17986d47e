package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refreshAccessToken exchanges the stored refresh token for a new pair and
// returns the new access token.
//
// Refresh tokens may be single-use on the backend, so the exchange must
// happen at most once per expiry event: concurrent callers that hit a 401
// while an exchange is already in flight attach to it and share its result
// instead of racing an already-rotated token into a spurious logout.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// The flight outlives any single caller; one cancelled caller
		// must not fail the exchange for everyone attached to it.
		return c.doRefresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// doRefresh performs the actual exchange. It fails fast without touching the
// network when no refresh token is stored, and it never clears credentials:
// giving up is the caller's decision, not the protocol's.
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	refreshToken, err := c.creds.Get(ctx, credentials.KindRefresh)
	if err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", ErrNoRefreshCredential
	}

	req := Request{
		Method: http.MethodPost,
		Path:   refreshPath,
		JSON:   refreshRequest{RefreshToken: refreshToken},
	}

	status, body, err := c.send(ctx, req, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrRefreshRejected, status)
	}

	var resp refreshResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token in response", ErrRefreshRejected)
	}

	// The access token is always replaced; the refresh token only when the
	// backend chose to rotate it this call.
	if resp.RefreshToken != "" {
		if err := c.creds.SetPair(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
			return "", err
		}
	} else if err := c.creds.Set(ctx, credentials.KindAccess, resp.AccessToken); err != nil {
		return "", err
	}

	c.log.Info(ctx, "access token refreshed", "rotated", resp.RefreshToken != "")

	return resp.AccessToken, nil
}
