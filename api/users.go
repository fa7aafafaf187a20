package api

import (
	"context"
	"net/http"
	"net/url"

	"livechat/models"
)

// ListUsers returns every user
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "/user/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchUsers returns users matching q
func (c *Client) SearchUsers(ctx context.Context, q string) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "/user/search", url.Values{"q": {q}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches one user by identifier
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/user/search/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser changes the given fields. The server only acknowledges, so nothing is returned.
func (c *Client) UpdateUser(ctx context.Context, id string, params models.UpdateUserParams) error {
	return c.do(ctx, http.MethodPut, "/user/update/"+escape(id), nil, params, nil)
}
