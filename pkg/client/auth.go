package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avantolog/avanto/pkg/domain"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
	Message string      `json:"message,omitempty"`
}

// Register creates a new account. A rejected payload (duplicate email,
// weak password) comes back as ErrValidation with the backend message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "/register", req, &res); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &res, nil
}

// Login exchanges credentials for a session token. Rejected credentials map
// to ErrInvalidCredentials; a connectivity failure maps to ErrNetwork, so
// the two are distinguishable with errors.Is.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.post(ctx, "/login", creds, &res); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("client.Login: %w: %s", ErrInvalidCredentials, Message(err))
		}
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &res, nil
}

// Logout notifies the server that the session is over. Best effort: callers
// must clear local session state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Me returns the authenticated user's profile. Used to re-validate an
// existing session; any failure means "not authenticated".
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}
