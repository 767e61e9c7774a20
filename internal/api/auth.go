package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/vortex/internal/domain"
)

// Signup creates an account. A returned token is stored on the session.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "auth.signup", "/auth/signup", req)
}

// Login signs in. A returned token is stored on the session.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "auth.login", "/auth/login", creds)
}

func (c *Client) authenticate(ctx context.Context, op, path string, body any) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, op, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" && c.tokens != nil {
		if err := c.tokens.SetToken(ctx, resp.Token); err != nil {
			return nil, domain.Internal(err, op, "failed to store session token")
		}
	}
	return &resp, nil
}

// Logout ends the upstream session and always drops the local token,
// even when the upstream call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "auth.logout", http.MethodPost, "/auth/logout", nil, nil)

	if c.tokens != nil {
		if cerr := c.tokens.ClearToken(ctx); cerr != nil {
			c.logger.Warn("failed to clear token on logout", "error", cerr)
		}
	}
	if IsUnauthorized(err) {
		return nil
	}
	return err
}
