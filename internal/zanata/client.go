// Package zanata is a REST client for the Zanata translation server.
package zanata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/loggy"
	"github.com/tildaslashalef/zanata-sync/internal/ulid"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrServer        = errors.New("server error")
	ErrVersionExists = errors.New("version already exists")
)

// APIError represents an error response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Config holds the connection settings
type Config struct {
	URL               string
	Username          string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
	BurstLimit        int
}

// Client handles HTTP communication with the Zanata server
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	fs      billy.Filesystem
	logger  *loggy.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithFilesystem sets the filesystem push reads staged files from
func WithFilesystem(fs billy.Filesystem) Option {
	return func(c *Client) {
		c.fs = fs
	}
}

// NewClient creates a client for the server at cfg.URL
func NewClient(cfg Config, logger *loggy.Logger, opts ...Option) (*Client, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, zerrors.Configuration("zanata client", "invalid server url: %v", err)
	}

	limit := rate.Inf
	burst := cfg.BurstLimit
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
		if burst <= 0 {
			burst = 1
		}
	}

	c := &Client{
		limiter: rate.NewLimiter(limit, burst),
		fs:      osfs.New("/", osfs.WithBoundOS()),
		logger:  logger,
	}

	c.http = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("X-Auth-User", cfg.Username).
		SetHeader("X-Auth-Token", cfg.APIKey).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-Id", ulid.RequestID())
			return c.limiter.Wait(r.Context())
		}).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.logger.Debug("Zanata request",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"duration", resp.Time(),
			)
			return nil
		})

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// do runs a request and classifies transport and HTTP failures as remote failures
func (c *Client) do(op string, req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, zerrors.Remote(op, err)
	}
	if err := mapHTTPError(resp); err != nil {
		return resp, zerrors.Remote(op, err)
	}
	return resp, nil
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Message:    strings.TrimSpace(string(resp.Body())),
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case resp.StatusCode() == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, apiErr)
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case resp.StatusCode() == http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, apiErr)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", ErrServer, apiErr)
	default:
		return apiErr
	}
}
