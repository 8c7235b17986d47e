package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
	"github.com/dmitrijs2005/blogcli/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Backend endpoint paths. Paths are relative to the configured base URL.
const (
	loginPath    = "/api/users/login"
	registerPath = "/api/users/register"
	refreshPath  = "/api/users/refresh-token"
	mePath       = "/api/users/me"
	logoutPath   = "/api/users/logout"
	postsPath    = "/api/posts"
	commentsPath = "/api/comments"
)

// Client talks to the blog backend over its REST API. All authenticated
// calls go through Do, which injects the bearer token and transparently
// survives one expired-access-token event per logical request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credentials.Store
	log        logging.Logger

	// Concurrent refresh attempts are coalesced into one exchange; see
	// refresh.go.
	refreshGroup singleflight.Group

	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client. Useful for testing and for
// custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a Client bound to the given base URL and credential store.
func New(baseURL string, creds credentials.Store, log logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		creds:      creds,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSessionExpired registers the teardown hook invoked when a token refresh
// fails and the session cannot be recovered. The session manager uses it to
// clear local state; the client itself never clears credentials.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

func (c *Client) sessionExpired() {
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
