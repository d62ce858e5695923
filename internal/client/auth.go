package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agentview/internal/logging"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// ErrSessionExpired is returned when the server rejects the access token and
// it cannot be renewed.
var ErrSessionExpired = errors.New("access token expired: run agentview login")

// SetRefreshToken enables renewing the access token after a 401. onRenew,
// when set, is called with every renewed token so it can be persisted.
func (c *Client) SetRefreshToken(token string, onRenew func(string) error) {
	if c == nil {
		return
	}
	c.authMu.Lock()
	defer c.authMu.Unlock()
	c.refreshToken = strings.TrimSpace(token)
	c.onRenew = onRenew
}

func (c *Client) accessToken() string {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	return c.token
}

func (c *Client) canRenew() bool {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	return c.refreshToken != ""
}

// Login exchanges credentials for tokens and starts using them.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, loginPath, LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return nil, errors.New("login: server returned no access token")
	}
	c.authMu.Lock()
	c.token = strings.TrimSpace(resp.AccessToken)
	if refresh := strings.TrimSpace(resp.RefreshToken); refresh != "" {
		c.refreshToken = refresh
	}
	c.authMu.Unlock()
	return &resp, nil
}

// roundTrip sends req and, when the server answers 401 and a refresh token
// is known, renews the access token and retries once.
func (c *Client) roundTrip(hc *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := c.do(hc, req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || !c.canRenew() {
		return resp, err
	}
	if strings.HasPrefix(req.URL.Path, apiPrefix+"/auth/") {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}
	resp.Body.Close()

	if err := c.renew(req.Context(), req.Header.Get("Authorization")); err != nil {
		c.logger.Warn("token refresh failed", logging.Err(err))
		return nil, fmt.Errorf("%w (%v)", ErrSessionExpired, err)
	}
	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	c.authorize(retry)
	return c.do(hc, retry)
}

// renew fetches a new access token unless another request already replaced
// the one rejected in staleAuth.
func (c *Client) renew(ctx context.Context, staleAuth string) error {
	c.renewMu.Lock()
	defer c.renewMu.Unlock()

	c.authMu.Lock()
	current, refresh := c.token, c.refreshToken
	c.authMu.Unlock()
	if current != "" && staleAuth != "Bearer "+current {
		return nil
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, refreshPath, RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		return err
	}
	resp, err := c.do(c.http, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	var out RefreshTokenResponse
	if err := decodeEnvelope(resp, &out); err != nil {
		return err
	}
	token := strings.TrimSpace(out.AccessToken)
	if token == "" {
		return errors.New("refresh: server returned no access token")
	}

	c.authMu.Lock()
	c.token = token
	onRenew := c.onRenew
	c.authMu.Unlock()
	c.logger.Info("access token renewed")
	if onRenew != nil {
		if err := onRenew(token); err != nil {
			c.logger.Warn("save renewed token failed", logging.Err(err))
		}
	}
	return nil
}
