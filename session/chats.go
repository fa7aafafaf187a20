package session

import (
	"context"
	"fmt"

	"livechat/logging"
	"livechat/models"
)

// RefreshChats replaces the chat list with the server's
func (s *Session) RefreshChats(ctx context.Context) error {
	chats, err := s.api.ListChats(ctx)
	if err != nil {
		return err
	}
	s.chats.ReplaceChats(chats)
	return nil
}

// OpenChat fetches the chat by id, makes it current and loads its messages
func (s *Session) OpenChat(ctx context.Context, id string) (*models.Chat, error) {
	chat, err := s.api.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.SelectChat(ctx, *chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// SelectChat makes an already known chat current and loads its messages
func (s *Session) SelectChat(ctx context.Context, chat models.Chat) error {
	s.chats.SetCurrent(&chat)
	_, err := s.LoadHistory(ctx, chat.ID, models.GetMessagesParams{})
	return err
}

// CreateChat creates a chat, puts it at the head of the list, opens it and joins it on realtime
func (s *Session) CreateChat(ctx context.Context, params models.CreateChatParams) (*models.Chat, error) {
	chat, err := s.api.CreateChat(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := chat.Validate(); err != nil {
		return nil, fmt.Errorf("session: create chat: %w", err)
	}
	s.chats.UpsertChat(*chat)
	s.chats.SetCurrent(chat)

	if conn, err := s.activeConn(); err == nil {
		if err := conn.JoinChats(ctx, []string{chat.ID}); err != nil {
			s.log.ErrorContext(ctx, "session - create chat - join failed", logging.Chat(chat.ID), logging.Err(err))
		}
	}
	return chat, nil
}

// UpdateChat applies a rename or membership change and refreshes the open chat if it is the one updated
func (s *Session) UpdateChat(ctx context.Context, id string, params models.UpdateChatParams) (*models.Chat, error) {
	chat, err := s.api.UpdateChat(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if err := chat.Validate(); err != nil {
		return nil, fmt.Errorf("session: update chat %s: %w", id, err)
	}
	s.chats.UpsertChat(*chat)
	s.chats.RefreshCurrent(*chat)
	return chat, nil
}
