package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
	"github.com/google/uuid"
)

// Request describes one logical backend call. It never carries the access
// token itself; Do injects the current token on every attempt, so a retry
// after refresh automatically picks up the renewed one. Bodies are held as
// values (JSON) or byte slices (Raw) so an attempt can be replayed.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// JSON, when non-nil, is marshalled as the request body with
	// Content-Type application/json. Raw is sent verbatim otherwise;
	// set the content type via Header.
	JSON any
	Raw  []byte

	Header http.Header
}

// Do performs req with bearer authentication, surviving at most one
// expired-access-token event:
//
//  1. Attach the current access token (if any) and send.
//  2. On 401/403, run the token refresh protocol once. If it succeeds,
//     resend with the new token exactly once and return that response as
//     final, even if it is another 401. If it fails, trigger session
//     teardown and surface the original unauthorized response.
//  3. Any other status is the caller's concern and is returned unchanged.
//
// A 2xx response body is decoded into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	token, err := c.creds.Get(ctx, credentials.KindAccess)
	if err != nil {
		return err
	}

	status, body, err := c.send(ctx, req, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if isUnauthorizedStatus(status) {
		newToken, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			c.log.Warn(ctx, "token refresh failed, tearing down session", "err", refreshErr)
			c.sessionExpired()
			return newAPIError(status, body)
		}

		// One retry with the renewed token. No second refresh even if
		// this one also comes back unauthorized.
		status, body, err = c.send(ctx, req, newToken)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if status < 200 || status >= 300 {
		return newAPIError(status, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// send builds and executes a single HTTP attempt. It returns the status code
// and the full response body; transport-level failures are returned as-is
// for the caller to classify.
func (c *Client) send(ctx context.Context, req Request, token string) (int, []byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.JSON != nil {
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	} else if req.Raw != nil {
		bodyReader = bytes.NewReader(req.Raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.JSON != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug(ctx, "request completed", "method", req.Method, "path", req.Path, "status", resp.StatusCode)

	return resp.StatusCode, body, nil
}
