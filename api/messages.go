package api

import (
	"context"
	"net/url"
	"strconv"

	"livechat/models"
)

// GetMessages returns one page of a chat's history in server order
func (c *Client) GetMessages(ctx context.Context, chatID string, params models.GetMessagesParams) ([]models.Message, error) {
	query := url.Values{}
	if params.Before != "" {
		query.Set("before", params.Before)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	var out []models.Message
	if err := c.get(ctx, "/chats/"+escape(chatID)+"/messages", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage posts a message; an empty type is sent as text
func (c *Client) SendMessage(ctx context.Context, chatID string, params models.SendMessageParams) (*models.Message, error) {
	params, err := params.Normalize()
	if err != nil {
		return nil, err
	}
	var out models.Message
	if err := c.post(ctx, "/chats/"+escape(chatID)+"/messages", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, chatID, messageID string) error {
	return c.post(ctx, "/chats/"+escape(chatID)+"/messages/"+escape(messageID)+"/read", nil, nil)
}
