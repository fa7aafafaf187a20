package models

import (
	"errors"
	"time"
)

// ChatType distinguishes two-party chats from group chats
type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

var (
	ErrInvalidChat       = errors.New("invalid chat")
	ErrInvalidChatParams = errors.New("invalid chat parameters")
)

// Chat represents a conversation between two users or a group
type Chat struct {
	ID            string     `json:"_id"`
	Type          ChatType   `json:"type"`
	Name          string     `json:"name,omitempty"`
	Participants  []User     `json:"participants"`
	LastMessage   *Message   `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LastActivity returns the time of the most recent message, or UpdatedAt when the chat has none
func (c Chat) LastActivity() time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.UpdatedAt
}

// Validate checks the structural invariants of a chat
func (c Chat) Validate() error {
	if c.ID == "" {
		return ErrInvalidChat
	}
	switch c.Type {
	case ChatTypeDirect:
		if distinct(c.ParticipantIDs()) != 2 {
			return ErrInvalidChat
		}
	case ChatTypeGroup:
	default:
		return ErrInvalidChat
	}
	return nil
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// ParticipantIDs returns the participant identifiers in order
func (c Chat) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

// Clone returns a copy of c that shares no slices or pointers with it
func (c Chat) Clone() Chat {
	out := c
	if c.Participants != nil {
		out.Participants = append([]User(nil), c.Participants...)
	}
	if c.LastMessage != nil {
		m := c.LastMessage.Clone()
		out.LastMessage = &m
	}
	if c.LastMessageAt != nil {
		t := *c.LastMessageAt
		out.LastMessageAt = &t
	}
	return out
}

// CreateChatParams is the body of POST /chats
type CreateChatParams struct {
	Type           ChatType `json:"type"`
	ParticipantID  string   `json:"participantId,omitempty"`  // direct
	Name           string   `json:"name,omitempty"`           // group
	ParticipantIDs []string `json:"participantIds,omitempty"` // group
}

// Validate rejects a direct chat without its other participant. Group details,
// including whether a name is required, are left to the server.
func (p CreateChatParams) Validate() error {
	switch p.Type {
	case ChatTypeDirect:
		if p.ParticipantID == "" {
			return ErrInvalidChatParams
		}
	case ChatTypeGroup:
	default:
		return ErrInvalidChatParams
	}
	return nil
}

// UpdateChatParams is the body of PATCH /chats/{id}
type UpdateChatParams struct {
	Name               string   `json:"name,omitempty"`
	AddParticipants    []string `json:"addParticipants,omitempty"`
	RemoveParticipants []string `json:"removeParticipants,omitempty"`
}
