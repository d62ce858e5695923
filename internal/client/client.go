package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"agentview/internal/config"
	"agentview/internal/logging"
	"agentview/internal/types"
)

const (
	apiPrefix       = "/api/v1"
	requestIDHeader = "X-Request-Id"
)

// ErrSessionRequired is returned by session operations called without an id.
var ErrSessionRequired = errors.New("session id is required")

type Client struct {
	baseURL     string
	http        *http.Client
	stream      *http.Client
	logger      logging.Logger
	streamDebug bool

	authMu       sync.Mutex
	token        string
	refreshToken string
	onRenew      func(token string) error
	renewMu      sync.Mutex
}

func New(cfg config.Config) (*Client, error) {
	token, err := cfg.Token()
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	refresh, err := cfg.RefreshToken()
	if err != nil {
		return nil, fmt.Errorf("resolve refresh token: %w", err)
	}
	c := NewWithBaseURL(cfg.BaseURL(), token)
	c.http.Timeout = cfg.RequestTimeout()
	c.streamDebug = cfg.StreamDebugEnabled()
	c.SetRefreshToken(refresh, func(renewed string) error {
		return cfg.SaveTokens(renewed, "")
	})
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		stream: &http.Client{},
		logger: logging.Nop(),
	}
}

// SetLogger routes request logs to logger. A nil logger disables them.
func (c *Client) SetLogger(logger logging.Logger) {
	if c == nil {
		return
	}
	if logger == nil {
		logger = logging.Nop()
	}
	c.logger = logger
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp CreateSessionResponse
	if err := c.doJSON(ctx, http.MethodPut, "/sessions", nil, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.SessionID) == "" {
		return "", errors.New("server returned no session id")
	}
	return resp.SessionID, nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*types.Session, error) {
	path, err := sessionPath(id, "")
	if err != nil {
		return nil, err
	}
	var session types.Session
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]types.SessionSummary, error) {
	var resp ListSessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	path, err := sessionPath(id, "")
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) StopSession(ctx context.Context, id string) error {
	path, err := sessionPath(id, "/stop")
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) ClearUnread(ctx context.Context, id string) error {
	path, err := sessionPath(id, "/clear_unread_message_count")
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) SessionFiles(ctx context.Context, id string) ([]types.FileInfo, error) {
	path, err := sessionPath(id, "/files")
	if err != nil {
		return nil, err
	}
	var files []types.FileInfo
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ViewShell fetches the console of the sandbox shell identified by shellID.
func (c *Client) ViewShell(ctx context.Context, id, shellID string) (*types.ShellView, error) {
	path, err := sessionPath(id, "/shell")
	if err != nil {
		return nil, err
	}
	var view types.ShellView
	if err := c.doJSON(ctx, http.MethodPost, path, ShellViewRequest{SessionID: shellID}, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ViewFile fetches the current content of a file inside the session sandbox.
func (c *Client) ViewFile(ctx context.Context, id, file string) (*types.FileView, error) {
	path, err := sessionPath(id, "/file")
	if err != nil {
		return nil, err
	}
	var view types.FileView
	if err := c.doJSON(ctx, http.MethodPost, path, FileViewRequest{File: file}, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// UploadFile stores a local file on the server so its id can be attached to
// a chat message.
func (c *Client) UploadFile(ctx context.Context, localPath string) (*types.FileInfo, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read %s: %w", localPath, err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/files", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	var resp UploadFileResponse
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &types.FileInfo{
		FileID:     resp.FileID,
		Filename:   resp.Filename,
		Size:       resp.Size,
		UploadDate: resp.UploadDate,
	}, nil
}

func sessionPath(id, suffix string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrSessionRequired
	}
	return "/sessions/" + url.PathEscape(id) + suffix, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	c.authorize(req)
	return c.send(req, out)
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.roundTrip(c.http, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	return decodeEnvelope(resp, out)
}

// do sends one request, tagged with a fresh request id, and logs it.
func (c *Client) do(hc *http.Client, req *http.Request) (*http.Response, error) {
	requestID := logging.NewRequestID()
	req.Header.Set(requestIDHeader, requestID)
	log := c.logger.With(logging.F("request_id", requestID))

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		log.Warn("request failed", logging.F("method", req.Method), logging.F("path", req.URL.Path), logging.Err(err))
		return nil, err
	}
	if log.Enabled(logging.Debug) {
		log.Debug("request",
			logging.F("method", req.Method),
			logging.F("path", req.URL.Path),
			logging.F("status", resp.StatusCode),
			logging.F("dur", time.Since(start)),
		)
	}
	return resp, nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeEnvelope(resp *http.Response, out any) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) && out == nil {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Code != 0 {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Code   int    `json:"code"`
		Msg    string `json:"msg"`
		Detail any    `json:"detail"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	switch {
	case payload.Msg != "":
		return &APIError{StatusCode: resp.StatusCode, Code: payload.Code, Message: payload.Msg}
	case payload.Detail != nil:
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprint(payload.Detail)}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
}

type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != 0 && e.Code != e.StatusCode {
		return fmt.Sprintf("api error (%d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	apiErr := asAPIError(err)
	return apiErr != nil && (apiErr.StatusCode == http.StatusNotFound || apiErr.Code == http.StatusNotFound)
}
