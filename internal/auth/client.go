// Package auth is a thin HTTP client for a GoTrue-compatible auth provider.
// The application owns no credentials or sessions; it forwards them and translates
// provider failures into user-facing messages.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ProviderError is a failure reported by the auth provider, carrying its error code
// so handlers can translate it via Message.
type ProviderError struct {
	StatusCode int
	Code       string
	Raw        string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("auth provider: %s (%s)", e.Raw, e.Code)
	}

	return fmt.Sprintf("auth provider: status %d (%s)", e.StatusCode, e.Code)
}

// ErrInvalidToken is returned by GetUser when the access token is missing or rejected.
var ErrInvalidToken = errors.New("auth: invalid or expired access token")

// User is the provider's view of an account, reduced to what the app needs.
type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

// UserMetadata carries the display name set at signup.
type UserMetadata struct {
	DisplayName string `json:"display_name"`
}

// Session is the token pair returned by sign-in and code exchange.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// ClientOptions configures the auth provider client.
type ClientOptions struct {
	// BaseURL is the provider's base URL (e.g. "https://xyz.supabase.co/auth/v1").
	BaseURL string
	// AnonKey is the provider's public API key, sent on every request.
	AnonKey string
	// Timeout is the HTTP client timeout (default: 30 seconds).
	Timeout time.Duration
}

// Client is the auth provider API client.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *retryablehttp.Client
}

// NewClient creates an auth provider client.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	// Auth calls are never retried: a failed attempt is terminal for that request.
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.HTTPClient.Timeout = opts.Timeout
	httpClient.Logger = nil

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		anonKey:    opts.AnonKey,
		httpClient: httpClient,
	}
}

// SignIn exchanges email and password for a session (password grant).
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session

	err := c.post(ctx, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, "", &session)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// SignUp registers a new account. The provider may require email confirmation
// before the returned session becomes usable.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	var session Session

	err := c.post(ctx, "/signup", map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"display_name": displayName},
	}, "", &session)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Recover asks the provider to send a password reset email.
func (c *Client) Recover(ctx context.Context, email string) error {
	return c.post(ctx, "/recover", map[string]string{"email": email}, "", nil)
}

// ExchangeCode exchanges an OAuth authorization code for a session (PKCE grant).
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error) {
	var session Session

	err := c.post(ctx, "/token?grant_type=pkce", map[string]string{
		"auth_code":     code,
		"code_verifier": codeVerifier,
	}, "", &session)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// GetUser resolves an access token to the account it belongs to.
// Returns ErrInvalidToken when the provider rejects the token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.setHeaders(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeProviderError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &user, nil
}

// post sends a JSON body to the provider and decodes the response into out (when non-nil).
func (c *Client) post(ctx context.Context, path string, body any, accessToken string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	c.setHeaders(req, accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeProviderError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *retryablehttp.Request, accessToken string) {
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

// decodeProviderError reads the provider's error body. GoTrue variously uses
// error_code/msg and error/error_description; all four are tolerated.
func decodeProviderError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &ProviderError{StatusCode: resp.StatusCode}
	}

	var payload struct {
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	_ = json.Unmarshal(body, &payload)

	code := payload.ErrorCode
	if code == "" {
		code = payload.Error
	}

	raw := payload.Msg
	if raw == "" {
		raw = payload.ErrorDescription
	}

	return &ProviderError{StatusCode: resp.StatusCode, Code: code, Raw: raw}
}
