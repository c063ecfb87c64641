package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client wraps the OpsCopilot backend REST API. The bearer token it attaches
// to authenticated requests is mutated only by the SessionManager; every other
// caller treats it as read-only.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

// APIError is a non-2xx response. Detail carries the backend's {detail}
// message when the body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the active bearer token. Only the SessionManager calls
// this; an empty string removes the token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a bearer token. The endpoint takes
// form-encoded username/password, where username is the account email.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response missing access_token")
	}
	return out.AccessToken, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/register", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("register response missing access_token")
	}
	return out.AccessToken, nil
}

// WhoAmI verifies token against the backend and returns the identity it maps
// to. The token is passed explicitly so the session manager can verify a
// candidate token before installing it.
func (c *Client) WhoAmI(ctx context.Context, token string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/whoami", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var out User
	if err := c.do(req, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// Chat sends one turn along with the full prior transcript and returns the
// backend's authoritative conversation and trace.
func (c *Client) Chat(ctx context.Context, message string, conversation []Turn) (ChatResponse, error) {
	if conversation == nil {
		conversation = []Turn{}
	}
	payload, err := json.Marshal(struct {
		Message      string `json:"message"`
		Conversation []Turn `json:"conversation"`
	}{Message: message, Conversation: conversation})
	if err != nil {
		return ChatResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return ChatResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	var out ChatResponse
	if err := c.do(req, &out); err != nil {
		return ChatResponse{}, err
	}
	return out, nil
}

// UploadDocument streams one file as a multipart upload.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, err
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/documents/upload", &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.authorize(req)

	var out UploadResult
	if err := c.do(req, &out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

// Tickets lists the tickets the agent has filed, newest first.
func (c *Client) Tickets(ctx context.Context) ([]Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/tickets", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	var out []Ticket
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) authorize(req *http.Request) {
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(bodyBytes, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("invalid api response: %w", err)
	}
	return nil
}
