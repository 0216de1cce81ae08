package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/loomboard/internal/track"
)

// Credentials is the POST /auth/login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// authResponse tolerates both token field spellings the service has used.
type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

func (r authResponse) bearer() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return "", fmt.Errorf("email and password are required")
	}
	var resp authResponse
	if err := c.do(ctx, "POST", "/auth/login", creds, &resp); err != nil {
		return "", err
	}
	token := resp.bearer()
	if token == "" {
		return "", fmt.Errorf("gateway: login succeeded but no token in response")
	}
	return token, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return "", fmt.Errorf("email and password are required")
	}
	var resp authResponse
	if err := c.do(ctx, "POST", "/auth/register", req, &resp); err != nil {
		return "", err
	}
	token := resp.bearer()
	if token == "" {
		return "", fmt.Errorf("gateway: registration succeeded but no token in response")
	}
	return token, nil
}

// Me returns the current session identity.
func (c *Client) Me(ctx context.Context) (track.User, error) {
	var user track.User
	if err := c.do(ctx, "GET", "/auth/me", nil, &user); err != nil {
		return user, err
	}
	return user, nil
}
