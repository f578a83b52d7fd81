// Package api is the client for the healthcare assistant backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

// DefaultBaseURL is the hosted backend
const DefaultBaseURL = "https://healthcare-ai-backend-re4u.onrender.com"

// ErrUnauthenticated is returned by authenticated calls when no token is available
var ErrUnauthenticated = errors.New("api: not logged in")

// TokenSource returns the current bearer token, or "" when logged out
type TokenSource func() string

// Client talks to the backend over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *logging.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(src TokenSource) ClientOption {
	return func(c *Client) {
		c.token = src
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a backend client rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token:  func() string { return "" },
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", credentials{username, password}, &resp, false); err != nil {
		return "", fmt.Errorf("api: login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("api: login: response carried no access token")
	}
	return resp.AccessToken, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, username, password string) error {
	if err := c.do(ctx, http.MethodPost, "/register", credentials{username, password}, nil, false); err != nil {
		return fmt.Errorf("api: register: %w", err)
	}
	return nil
}

// ListAppointments fetches the authoritative appointment list
func (c *Client) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, &appts, true); err != nil {
		return nil, fmt.Errorf("api: list appointments: %w", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// CreateAppointment stores a new appointment
func (c *Client) CreateAppointment(ctx context.Context, appt models.NewAppointment) error {
	if err := c.do(ctx, http.MethodPost, "/appointments", appt, nil, true); err != nil {
		return fmt.Errorf("api: create appointment: %w", err)
	}
	return nil
}

// DeleteAppointment removes one appointment by id
func (c *Client) DeleteAppointment(ctx context.Context, id models.AppointmentID) error {
	path := "/appointments/" + url.PathEscape(id.String())
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, true); err != nil {
		return fmt.Errorf("api: delete appointment %s: %w", id, err)
	}
	return nil
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat forwards a free-text question to the assistant
func (c *Client) Chat(ctx context.Context, message string) (*models.ChatReply, error) {
	var reply models.ChatReply
	if err := c.do(ctx, http.MethodPost, "/chat", chatRequest{Message: message}, &reply, true); err != nil {
		return nil, fmt.Errorf("api: chat: %w", err)
	}
	if reply.Sources == nil {
		reply.Sources = []models.Source{}
	}
	return &reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := c.token()
		if token == "" {
			return ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
