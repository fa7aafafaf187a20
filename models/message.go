package models

import (
	"errors"
	"time"
)

// ContentType is the kind of payload a message carries
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
	ContentTypeFile  ContentType = "file"
)

var ErrEmptyContent = errors.New("message content is required")

// Message represents a chat message. Chat never changes after creation.
type Message struct {
	ID        string      `json:"_id"`
	Chat      string      `json:"chat"`
	Sender    User        `json:"sender"`
	Content   string      `json:"content"`
	Type      ContentType `json:"type"`
	ReadBy    []string    `json:"readBy,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Clone returns a copy of m with its own ReadBy slice
func (m Message) Clone() Message {
	out := m
	if m.ReadBy != nil {
		out.ReadBy = append([]string(nil), m.ReadBy...)
	}
	return out
}

// ReadByUser reports whether userID is in the read receipts
func (m Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// SendMessageParams is the body of POST /chats/{id}/messages
type SendMessageParams struct {
	Content string      `json:"content"`
	Type    ContentType `json:"type,omitempty"`
}

// Normalize defaults the content type to text and rejects empty content
func (p SendMessageParams) Normalize() (SendMessageParams, error) {
	if p.Content == "" {
		return p, ErrEmptyContent
	}
	if p.Type == "" {
		p.Type = ContentTypeText
	}
	return p, nil
}

// GetMessagesParams pages through message history
type GetMessagesParams struct {
	Before string
	Limit  int
}
