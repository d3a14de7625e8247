package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"netsight/pkg/config"
	"netsight/pkg/gateway"
	"netsight/pkg/session"

	"github.com/golang-jwt/jwt/v5"
)

// Login errors
var (
	ErrInvalidInput = errors.New("username and password are required")
	ErrAuthFailed   = errors.New("authentication failed")
)

// Token is the credential material returned by a successful login.
type Token struct {
	AccessToken string
	TokenType   string
	Username    string
	IssuedAt    time.Time
}

// loginResponse is the JSON body returned by the login endpoint.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// whoAmIResponse is the JSON body returned by the whoami endpoint. Either
// field may be missing.
type whoAmIResponse struct {
	Role  string   `json:"role"`
	Roles []string `json:"roles"`
}

// rolePrecedence is the order in which a roles collection is searched.
var rolePrecedence = []session.Role{
	session.RoleHR,
	session.RoleIT,
	session.RoleAdmin,
}

// Client exchanges credentials for tokens and resolves the caller's role.
type Client struct {
	gw          *gateway.Client
	loginPath   string
	whoAmIPath  string
	loginFormat string
	now         func() time.Time
}

// NewClient creates an auth client on top of the gateway transport.
func NewClient(gw *gateway.Client, cfg config.GatewayConfig) *Client {
	return &Client{
		gw:          gw,
		loginPath:   cfg.LoginPath,
		whoAmIPath:  cfg.WhoAmIPath,
		loginFormat: cfg.LoginFormat,
		now:         time.Now,
	}
}

// Login posts credentials to the login endpoint. Blank input fails with
// ErrInvalidInput before any request is made; rejected credentials and
// token-less replies fail with ErrAuthFailed.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return Token{}, ErrInvalidInput
	}

	req := gateway.Request{
		Method:    http.MethodPost,
		Path:      c.loginPath,
		Anonymous: true,
	}
	if c.loginFormat == "json" {
		req.JSON = map[string]string{"username": username, "password": password}
	} else {
		req.Form = url.Values{"username": {username}, "password": {password}}
	}

	slog.Info("auth_login_start", "user", username, "format", c.loginFormat)

	var body loginResponse
	if err := c.gw.Call(ctx, req, &body); err != nil {
		var statusErr *gateway.StatusError
		if errors.As(err, &statusErr) {
			slog.Warn("auth_login_rejected", "user", username, "status_code", statusErr.Code)
			if statusErr.Detail != "" {
				return Token{}, fmt.Errorf("%w: %s", ErrAuthFailed, statusErr.Detail)
			}
			return Token{}, fmt.Errorf("%w: server returned status %d", ErrAuthFailed, statusErr.Code)
		}
		slog.Error("auth_login_error", "user", username, "error", err)
		return Token{}, fmt.Errorf("login request failed: %w", err)
	}

	if body.AccessToken == "" {
		slog.Warn("auth_login_no_token", "user", username)
		return Token{}, fmt.Errorf("%w: server returned no token", ErrAuthFailed)
	}

	tok := Token{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
		Username:    body.Username,
		IssuedAt:    c.now(),
	}
	if tok.TokenType == "" {
		tok.TokenType = "bearer"
	}

	sub, iat := tokenClaims(body.AccessToken)
	if tok.Username == "" {
		tok.Username = sub
	}
	if tok.Username == "" {
		tok.Username = username
	}
	if !iat.IsZero() {
		tok.IssuedAt = iat
	}

	slog.Info("auth_login_success", "user", tok.Username)
	return tok, nil
}

// ResolveRole asks the whoami endpoint for the caller's role. It never
// fails: any problem yields RoleUnknown so login can proceed.
func (c *Client) ResolveRole(ctx context.Context, token string) session.Role {
	resp, err := c.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   c.whoAmIPath,
		Bearer: token,
	})
	if err != nil {
		slog.Warn("auth_role_degraded", "error", err)
		return session.RoleUnknown
	}
	if !resp.OK() {
		slog.Warn("auth_role_degraded", "status_code", resp.StatusCode)
		return session.RoleUnknown
	}

	role := ParseWhoAmI(resp.Body)
	slog.Debug("auth_role_resolved", "role", string(role))
	return role
}

// roleFromWhoAmI prefers the singular role field, then searches the roles
// collection in rolePrecedence order.
func roleFromWhoAmI(body whoAmIResponse) session.Role {
	if body.Role != "" {
		return session.ParseRole(body.Role)
	}
	for _, want := range rolePrecedence {
		for _, have := range body.Roles {
			if have == string(want) {
				return want
			}
		}
	}
	return session.RoleUnknown
}

// ParseWhoAmI decodes a raw whoami body into a Role. Malformed bodies
// resolve to RoleUnknown.
func ParseWhoAmI(data []byte) session.Role {
	var body whoAmIResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return session.RoleUnknown
	}
	return roleFromWhoAmI(body)
}

// tokenClaims reads sub and iat from a JWT without verifying it. The client
// holds no signing key; the claims only label the session. Opaque tokens
// return zero values.
func tokenClaims(raw string) (string, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", time.Time{}
	}
	sub, _ := claims.GetSubject()
	var issued time.Time
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		issued = iat.Time
	}
	return sub, issued
}
