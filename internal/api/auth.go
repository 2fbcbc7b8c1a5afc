package api

import (
	"context"
	"net/http"

	"github.com/taskdeck/taskdeck/pkg/models"
)

// Login authenticates with email and password, returning the token and user
// identity the backend issued.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthData, error) {
	var data models.AuthData
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Register creates a new identity server-side and returns the issued token
// and user, same shape as Login.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthData, error) {
	var data models.AuthData
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Profile fetches the identity of the currently authenticated user. A failing
// call with an invalid or expired token is how the client detects a dead
// session.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
