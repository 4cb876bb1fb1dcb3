// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
)

const (
	defaultTimeout    = 10 * time.Second
	minPasswordLength = 6

	// usernameTakenMessage is the server's conflict message, matched verbatim
	// to distinguish it from other errors.
	usernameTakenMessage = "Username already exists"
)

// Sentinel errors returned by the client.
var (
	// ErrTimeout is returned when the server does not respond within the
	// configured bound.
	ErrTimeout = errors.New("request timed out")

	// ErrUsernameTaken is returned when signup fails because the username is
	// already registered.
	ErrUsernameTaken = errors.New(usernameTakenMessage)
)

// APIError is a non-conflict error reported by the server. The message is
// passed through verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}

// SignupParams is the signup request payload.
type SignupParams struct {
	FullName        string `json:"fullName"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Gender          string `json:"gender"`
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client. The caller is
// responsible for configuring a cookie jar if session cookies should stick.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionStore replaces the session store.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

// Client talks to the Banter HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	store      SessionStore
	loading    atomic.Bool
}

// New creates a Client for the API at baseURL. The default HTTP client
// carries a cookie jar so the session cookie set by signup and login is sent
// on subsequent requests.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, oops.Code("CLIENT_CONFIG_INVALID").Errorf("base URL is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, oops.Code("CLIENT_CONFIG_INVALID").Wrap(err)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		timeout:    defaultTimeout,
		store:      NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout <= 0 {
		return nil, oops.Code("CLIENT_CONFIG_INVALID").Errorf("timeout must be positive")
	}
	return c, nil
}

// Sessions returns the session store holding the authenticated profile.
func (c *Client) Sessions() SessionStore {
	return c.store
}

// Loading reports whether a call is currently in flight. It is advisory:
// callers that want to avoid re-entrant calls must check it before invoking.
func (c *Client) Loading() bool {
	return c.loading.Load()
}

// Signup registers a new account. Input is validated locally before any
// network call: all fields are required, password and confirmation must
// match, and the password must be at least six characters. On success the
// returned profile is persisted to the session store.
func (c *Client) Signup(ctx context.Context, params SignupParams) (*Profile, error) {
	if err := validateSignup(params); err != nil {
		return nil, err
	}

	c.loading.Store(true)
	defer c.loading.Store(false)

	profile, err := c.postJSON(ctx, "/api/auth/signup", params)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message == usernameTakenMessage {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	c.store.Set(profile)
	return profile, nil
}

// Login authenticates with a username and password. On success the returned
// profile is persisted to the session store.
func (c *Client) Login(ctx context.Context, username, password string) (*Profile, error) {
	if username == "" || password == "" {
		return nil, oops.Code("CLIENT_VALIDATION").Errorf("username and password are required")
	}

	c.loading.Store(true)
	defer c.loading.Store(false)

	payload := map[string]string{"username": username, "password": password}
	profile, err := c.postJSON(ctx, "/api/auth/login", payload)
	if err != nil {
		return nil, err
	}

	c.store.Set(profile)
	return profile, nil
}

// Logout ends the session. The session store is cleared even though the
// token stays valid server-side until expiry.
func (c *Client) Logout(ctx context.Context) error {
	c.loading.Store(true)
	defer c.loading.Store(false)

	if _, err := c.postJSON(ctx, "/api/auth/logout", nil); err != nil {
		return err
	}

	c.store.Clear()
	return nil
}

func validateSignup(params SignupParams) error {
	if params.FullName == "" || params.Username == "" || params.Password == "" ||
		params.ConfirmPassword == "" || params.Gender == "" {
		return oops.Code("CLIENT_VALIDATION").Errorf("all fields are required")
	}
	if params.Password != params.ConfirmPassword {
		return oops.Code("CLIENT_VALIDATION").Errorf("passwords do not match")
	}
	if len(params.Password) < minPasswordLength {
		return oops.Code("CLIENT_VALIDATION").
			Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// postJSON sends a timeout-guarded POST and decodes the response. A deadline
// hit is reported as ErrTimeout, distinct from other transport failures.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (*Profile, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, oops.Code("CLIENT_ENCODE_FAILED").Wrap(err)
		}
		body = bytes.NewReader(encoded)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, oops.Code("CLIENT_REQUEST_FAILED").With("path", path).Wrap(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, oops.Code("CLIENT_REQUEST_FAILED").With("path", path).Wrap(err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is not actionable

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, oops.Code("CLIENT_DECODE_FAILED").With("path", path).Wrap(err)
	}
	return &profile, nil
}

// decodeAPIError extracts the server's {"error": ...} message. A body that
// cannot be decoded falls back to the HTTP status text.
func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
}
