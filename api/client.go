// Package api is the HTTP client for the legal-assistant backend. It covers
// the three collaborator surfaces the client consumes: authentication,
// session listing/creation/deletion, and the message exchange. Every request
// carries the bearer token; failures map to a typed *Error and the response
// body is not trusted on non-success statuses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Error is a non-success response from the backend.
type Error struct {
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// IsStatus reports whether err is a backend error with the given status.
func IsStatus(err error, status int) bool {
	apiErr := &Error{}
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsUnauthorized reports whether the backend rejected our credential.
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }

// IsNotFound reports whether the resource is absent server-side.
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// Client talks to the backend. The timeout bounds every call, including the
// exchange, so a hung backend resolves as an error instead of stalling the
// single-flight lock forever.
type Client struct {
	host       string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for the given host.
func NewClient(host string, timeout time.Duration) *Client {
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken attaches the bearer credential used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Register creates a new local-credential identity.
func (c *Client) Register(ctx context.Context, username, password string) (*Token, error) {
	token := &Token{}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", &registerRequest{Username: username, Password: password}, token)
	return token, errors.Wrap(err, "registering")
}

// Login authenticates a local-credential identity.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	token := &Token{}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", &registerRequest{Username: username, Password: password}, token)
	return token, errors.Wrap(err, "logging in")
}

// GoogleLogin authenticates a federated identity.
func (c *Client) GoogleLogin(ctx context.Context, username, email string) (*Token, error) {
	token := &Token{}
	err := c.do(ctx, http.MethodPost, "/api/auth/google", &googleLoginRequest{Username: username, Email: email}, token)
	return token, errors.Wrap(err, "logging in with google")
}

// ListChats fetches all sessions owned by the signed-in identity.
func (c *Client) ListChats(ctx context.Context) ([]*Chat, error) {
	var chats []*Chat
	err := c.do(ctx, http.MethodGet, "/api/chats", nil, &chats)
	return chats, errors.Wrap(err, "listing chats")
}

// CreateChat creates a new, empty session server-side.
func (c *Client) CreateChat(ctx context.Context, title string) (*Chat, error) {
	chat := &Chat{}
	err := c.do(ctx, http.MethodPost, "/api/chats", &createChatRequest{Title: title}, chat)
	return chat, errors.Wrap(err, "creating chat")
}

// DeleteChat removes a session server-side.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	path := "/api/chats/" + url.PathEscape(id)
	return errors.Wrap(c.do(ctx, http.MethodDelete, path, nil, nil), "deleting chat")
}

// SendMessage performs one exchange: the user turn goes up, the assistant
// turn (text plus citation sources) comes back atomically or not at all.
func (c *Client) SendMessage(ctx context.Context, chatID string, request *SendMessageRequest) (*ChatMessage, error) {
	path := "/api/chats/" + url.PathEscape(chatID) + "/messages"
	message := &ChatMessage{}
	err := c.do(ctx, http.MethodPost, path, request, message)
	return message, errors.Wrap(err, "sending message")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshaling request body")
		}
		reader = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.host+path, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrap(err, "issuing request")
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		// Drain so the connection can be reused; the body is untrusted.
		_, _ = io.Copy(io.Discard, response.Body)
		return &Error{StatusCode: response.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}
