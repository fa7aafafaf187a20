package api

import (
	"context"

	"livechat/models"
)

// GetFriends lists accepted friends
func (c *Client) GetFriends(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.get(ctx, "/friends", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFriendRequests lists pending friend requests
func (c *Client) GetFriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	if err := c.get(ctx, "/friends/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendFriendRequest asks toUserID to become a friend
func (c *Client) SendFriendRequest(ctx context.Context, toUserID string) (*models.FriendRequest, error) {
	var out models.FriendRequest
	body := models.CreateFriendRequestParams{ToUserID: toUserID}
	if err := c.post(ctx, "/friends/requests", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptFriendRequest accepts the request with the given identifier
func (c *Client) AcceptFriendRequest(ctx context.Context, id string) error {
	return c.post(ctx, "/friends/requests/"+escape(id)+"/accept", nil, nil)
}

// RejectFriendRequest rejects the request with the given identifier
func (c *Client) RejectFriendRequest(ctx context.Context, id string) error {
	return c.post(ctx, "/friends/requests/"+escape(id)+"/reject", nil, nil)
}
