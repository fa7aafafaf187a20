package api

import (
	"context"
	"net/http"

	"livechat/models"
)

func (c *Client) ListChats(ctx context.Context) ([]models.Chat, error) {
	var out []models.Chat
	if err := c.get(ctx, "/chats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var out models.Chat
	if err := c.get(ctx, "/chats/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateChat validates params locally before posting them
func (c *Client) CreateChat(ctx context.Context, params models.CreateChatParams) (*models.Chat, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	var out models.Chat
	if err := c.post(ctx, "/chats", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChat(ctx context.Context, id string, params models.UpdateChatParams) (*models.Chat, error) {
	var out models.Chat
	if err := c.do(ctx, http.MethodPatch, "/chats/"+escape(id), nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
