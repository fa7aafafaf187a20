package api

import (
	"context"

	"livechat/models"
)

// SignIn exchanges credentials for a bearer token and a user summary
func (c *Client) SignIn(ctx context.Context, params models.SignInParams) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.post(ctx, "/auth/signin", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new account
func (c *Client) SignUp(ctx context.Context, params models.SignUpParams) error {
	return c.post(ctx, "/auth/signup", params, nil)
}
