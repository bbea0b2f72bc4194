// Package api implements the HTTP client for the fitbot answer service.
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/fitbot/internal/models"
)

// DefaultTimeout bounds a request when no timeout option is given
const DefaultTimeout = 60 * time.Second

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// maxErrorBody caps how much of an error body is kept for diagnostics
const maxErrorBody = 4096

// AnswerClient defines the operations the rest of fitbot needs from the
// answer service. It allows for dependency injection and easier testing.
type AnswerClient interface {
	Ask(ctx context.Context, question string) (string, error)
	Health(ctx context.Context) (*HealthStatus, error)
	BaseURL() string
}

// Client is the answer service client
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	userAgent  string
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements AnswerClient
var _ AnswerClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a client for the service rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("base URL must start with http:// or https://, got %q", baseURL)
	}

	client := &Client{
		baseURL:   baseURL,
		timeout:   DefaultTimeout,
		userAgent: "fitbot",
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		timeoutSecs := int(client.timeout / time.Second)
		if timeoutSecs <= 0 {
			timeoutSecs = int(DefaultTimeout / time.Second)
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(timeoutSecs),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// GetHTTPClient returns the underlying HTTP client
func (c *Client) GetHTTPClient() tls_client.HttpClient {
	return c.httpClient
}

// Close releases idle connections; later requests fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// withTimeout derives a request context bounded by the client timeout
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
