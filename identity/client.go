// Package identity performs the remote operations of the token-based
// authentication scheme: login, registration, OTP confirmation, access token
// refresh, and profile retrieval. Every operation resolves to a tagged
// Outcome; transport and validation failures never escape as panics.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	loginPath    = "/login/"
	registerPath = "/register/"
	otpPath      = "/verify-otp/"
	refreshPath  = "/token_refresh/"
	profilePath  = "/profile/"

	defaultRequestTimeout = 15 * time.Second
)

// Client talks to the remote identity endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates an identity client for the given base URL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Login submits credentials to the login endpoint. A 202 means the OTP code
// was sent and the session is not established yet; any other success status
// must carry the full token pair.
func (c *Client) Login(ctx context.Context, form Form) Outcome {
	status, body, err := c.post(ctx, loginPath, form)
	if err != nil {
		return failed(nil, errors.Wrap(err, "[Client.Login] post"))
	}
	if status == http.StatusAccepted {
		c.log.Debug().Str("username", form.Username).Msg("login answered with OTP step-up")
		return stepUpRequired(form.Username)
	}
	return c.tokenPairOutcome(status, body, form.Username, "Login")
}

// Register submits a registration form. A 201 means the account was created
// and the OTP code was sent; the session is established after confirmation.
func (c *Client) Register(ctx context.Context, form Form) Outcome {
	status, body, err := c.post(ctx, registerPath, form)
	if err != nil {
		return failed(nil, errors.Wrap(err, "[Client.Register] post"))
	}
	if status == http.StatusCreated {
		c.log.Debug().Str("username", form.Username).Msg("registration answered with OTP step-up")
		return stepUpRequired(form.Username)
	}
	return c.tokenPairOutcome(status, body, form.Username, "Register")
}

// ConfirmOTP posts the pending username and OTP code. Success carries the
// token pair and the user profile.
func (c *Client) ConfirmOTP(ctx context.Context, username, code string) Outcome {
	status, body, err := c.post(ctx, otpPath, otpRequest{Username: username, OtpCode: code})
	if err != nil {
		return failed(nil, errors.Wrap(err, "[Client.ConfirmOTP] post"))
	}
	if !successStatus(status) {
		return failed(parseFieldErrors(body), errors.Wrapf(UnexpectedStatusErr, "[Client.ConfirmOTP] status %d", status))
	}

	resp, err := decodeTokenResponse(body)
	if err != nil {
		return failed(nil, errors.Wrap(err, "[Client.ConfirmOTP] decode"))
	}
	creds := token.Credentials{Access: resp.Access, Refresh: resp.Refresh}
	if !creds.Complete() {
		return failed(nil, errors.Wrap(MissingTokensErr, "[Client.ConfirmOTP]"))
	}
	return authenticated(creds, resp.User)
}

// Refresh exchanges the refresh token for a new access token. The returned
// credentials carry a refresh token only when the server rotated it; the
// caller keeps the old one otherwise.
func (c *Client) Refresh(ctx context.Context, refreshToken string) Outcome {
	status, body, err := c.post(ctx, refreshPath, refreshRequest{Refresh: refreshToken})
	if err != nil {
		return failed(nil, errors.Wrap(err, "[Client.Refresh] post"))
	}
	if !successStatus(status) {
		return failed(parseFieldErrors(body), errors.Wrapf(UnexpectedStatusErr, "[Client.Refresh] status %d", status))
	}

	resp, err := decodeTokenResponse(body)
	if err != nil {
		return failed(nil, errors.Wrap(err, "[Client.Refresh] decode"))
	}
	if strings.TrimSpace(resp.Access) == "" {
		return failed(nil, errors.Wrap(MissingTokensErr, "[Client.Refresh]"))
	}
	return authenticated(token.Credentials{Access: resp.Access, Refresh: resp.Refresh}, nil)
}

// Profile fetches the user profile with the given bearer credential.
func (c *Client) Profile(ctx context.Context, accessToken string) (*users.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+profilePath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Profile] build request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	status, body, err := c.do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Profile] do")
	}
	if !successStatus(status) {
		return nil, errors.Wrapf(UnexpectedStatusErr, "[Client.Profile] status %d", status)
	}

	var user users.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Wrap(MalformedBodyErr, err.Error())
	}
	return &user, nil
}

// tokenPairOutcome handles the shared non-step-up branch of login and
// registration: a success status must carry both tokens, a success status
// without them still means the OTP step applies, anything else is a failure
// with field errors when the body provides them.
func (c *Client) tokenPairOutcome(status int, body []byte, username, op string) Outcome {
	if !successStatus(status) {
		c.log.Debug().Int("status", status).Str("op", op).Msg("identity operation failed")
		return failed(parseFieldErrors(body), errors.Wrapf(UnexpectedStatusErr, "[Client.%s] status %d", op, status))
	}

	resp, err := decodeTokenResponse(body)
	if err != nil {
		return failed(nil, errors.Wrapf(err, "[Client.%s] decode", op))
	}
	creds := token.Credentials{Access: resp.Access, Refresh: resp.Refresh}
	if !creds.Complete() {
		return stepUpRequired(username)
	}
	return authenticated(creds, resp.User)
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(TransportErr, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(TransportErr, err.Error())
	}
	return resp.StatusCode, body, nil
}

func decodeTokenResponse(body []byte) (*tokenResponse, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(MalformedBodyErr, err.Error())
	}
	return &resp, nil
}

func successStatus(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
