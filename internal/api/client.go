// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the bitum API client.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 15 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// Keeps a misbehaving server from exhausting client memory.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// TokenCookieName is the session cookie issued by POST /user/token.
	TokenCookieName = "api_token"

	// requestsPerSecond caps outbound request rate. Polling sessions for
	// messages, members, chats and events all share one client; the cap
	// keeps a misconfigured refresh interval from hammering the server.
	requestsPerSecond = 20
)

// ErrNoData indicates an ok envelope that arrived without a data payload
// where one was required.
var ErrNoData = errors.New("response has no data")

// Client is the HTTP client for one bitum server. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The cookie jar of
// the replacement is used as-is; tests use this to inject transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for the server at baseURL, which must include
// the /api prefix (for example "https://chat.example.org/api").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Jar:     jar,
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// =============================================================================
// TRANSPORT CORE
// =============================================================================

// call issues one request and decodes the shared envelope. A non-nil error
// is either a transport failure or, for ok=false envelopes, the server's
// *Error. The data pointer is non-nil exactly when err is nil.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	resp, err := callEnvelope[T](ctx, c, method, path, body)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoData
	}
	return resp.Data, nil
}

// callNoData is call for endpoints whose ok envelope carries no payload.
func callNoData(ctx context.Context, c *Client, method, path string, body any) error {
	_, err := callEnvelope[struct{}](ctx, c, method, path, body)
	return err
}

func callEnvelope[T any](ctx context.Context, c *Client, method, path string, body any) (*Response[T], error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return decodeEnvelope[T](c.httpClient.Do(req))
}

func decodeEnvelope[T any](httpResp *http.Response, reqErr error) (*Response[T], error) {
	if reqErr != nil {
		return nil, reqErr
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp Response[T]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !resp.OK {
		return nil, resp.Err()
	}
	return &resp, nil
}

// =============================================================================
// USERS & SESSIONS
// =============================================================================

// CurrentUser resolves the identity behind the session cookie.
// An unauthenticated session is a server-reported failure (*Error).
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	return call[User](ctx, c, http.MethodGet, "/user", nil)
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req NewUserRequest) (*User, error) {
	return call[User](ctx, c, http.MethodPost, "/user", req)
}

// Token exchanges credentials for a session token. The server also sets
// the api_token cookie, which the jar retains for subsequent calls.
func (c *Client) Token(ctx context.Context, req TokenRequest) (string, error) {
	data, err := call[TokenData](ctx, c, http.MethodPost, "/user/token", req)
	if err != nil {
		return "", err
	}
	return data.Token, nil
}

// SearchUsers finds human accounts by username prefix.
func (c *Client) SearchUsers(ctx context.Context, username string, limit, offset int) ([]User, error) {
	return searchAccounts(ctx, c, "/user/search", username, limit, offset)
}

// SearchBots finds bot accounts by username prefix.
func (c *Client) SearchBots(ctx context.Context, username string, limit, offset int) ([]User, error) {
	return searchAccounts(ctx, c, "/bot/search", username, limit, offset)
}

func searchAccounts(ctx context.Context, c *Client, path, username string, limit, offset int) ([]User, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	users, err := call[[]User](ctx, c, http.MethodGet, path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return *users, nil
}

// =============================================================================
// CHATS
// =============================================================================

// Chats lists the chats the current user belongs to.
func (c *Client) Chats(ctx context.Context) ([]Chat, error) {
	chats, err := call[[]Chat](ctx, c, http.MethodGet, "/chats", nil)
	if err != nil {
		return nil, err
	}
	return *chats, nil
}

// Chat fetches a single chat.
func (c *Client) Chat(ctx context.Context, chatID int) (*Chat, error) {
	return call[Chat](ctx, c, http.MethodGet, "/chat/"+strconv.Itoa(chatID), nil)
}

// CreateChat creates a chat owned by the current user.
func (c *Client) CreateChat(ctx context.Context, req NewChatRequest) (*Chat, error) {
	return call[Chat](ctx, c, http.MethodPost, "/chat", req)
}

// Messages fetches one page of a chat's messages, newest first.
func (c *Client) Messages(ctx context.Context, chatID, limit, offset int) ([]ChatMessage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	path := fmt.Sprintf("/chat/%d/messages?%s", chatID, query.Encode())
	messages, err := call[[]ChatMessage](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return *messages, nil
}

// SendMessage posts a message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int, req SendMessageRequest) (*ChatMessage, error) {
	return call[ChatMessage](ctx, c, http.MethodPost, fmt.Sprintf("/chat/%d/message", chatID), req)
}

// =============================================================================
// MEMBERS
// =============================================================================

// Members lists a chat's members.
func (c *Client) Members(ctx context.Context, chatID int) ([]ChatMember, error) {
	members, err := call[[]ChatMember](ctx, c, http.MethodGet, fmt.Sprintf("/chat/%d/member", chatID), nil)
	if err != nil {
		return nil, err
	}
	return *members, nil
}

// AddMember adds a user to a chat. A 409 means they are already a member;
// see IsConflict.
func (c *Client) AddMember(ctx context.Context, chatID, userID int) (*ChatMember, error) {
	return call[ChatMember](ctx, c, http.MethodPost, fmt.Sprintf("/chat/%d/member", chatID), AddMemberRequest{UserID: userID})
}

// KickMember removes a user from a chat.
func (c *Client) KickMember(ctx context.Context, chatID, userID int) error {
	return callNoData(ctx, c, http.MethodDelete, fmt.Sprintf("/chat/%d/member/%d", chatID, userID), nil)
}

// =============================================================================
// BOTS
// =============================================================================

// Bots lists the bots owned by the current user.
func (c *Client) Bots(ctx context.Context) ([]User, error) {
	bots, err := call[[]User](ctx, c, http.MethodGet, "/bots", nil)
	if err != nil {
		return nil, err
	}
	return *bots, nil
}

// CreateBot registers a new bot account owned by the current user.
func (c *Client) CreateBot(ctx context.Context, username string) (*User, error) {
	return call[User](ctx, c, http.MethodPost, "/bot", NewBotRequest{Username: username})
}

// DeleteBot deletes a bot the current user owns.
func (c *Client) DeleteBot(ctx context.Context, botID int) error {
	return callNoData(ctx, c, http.MethodDelete, "/bot/"+strconv.Itoa(botID), nil)
}

// BotToken issues a fresh API token for a bot. The previous token is
// invalidated server-side.
func (c *Client) BotToken(ctx context.Context, botID int) (string, error) {
	data, err := call[TokenData](ctx, c, http.MethodPost, fmt.Sprintf("/bot/%d/token", botID), nil)
	if err != nil {
		return "", err
	}
	return data.Token, nil
}

// =============================================================================
// EVENTS
// =============================================================================

// Events fetches the current user's unread event feed. Delivered events
// are marked read by the server.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	raw, err := call[[]json.RawMessage](ctx, c, http.MethodGet, "/events", nil)
	if err != nil {
		return nil, err
	}
	return DecodeEvents(*raw)
}

// =============================================================================
// FILES
// =============================================================================

// FileUpload is one file to store on the server.
type FileUpload struct {
	Name   string
	Reader io.Reader
}

// UploadFiles stores files via the multipart endpoint and returns the
// server-assigned names, in upload order. Those names are what message
// and chat payloads reference.
func (c *Client) UploadFiles(ctx context.Context, files []FileUpload) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := decodeEnvelope[[]string](c.httpClient.Do(req))
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNoData
	}
	return *resp.Data, nil
}
