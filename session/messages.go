package session

import (
	"context"

	"livechat/models"
)

// LoadHistory fetches messages for chatID and loads them if the chat is still open
func (s *Session) LoadHistory(ctx context.Context, chatID string, params models.GetMessagesParams) ([]models.Message, error) {
	msgs, err := s.api.GetMessages(ctx, chatID, params)
	if err != nil {
		return nil, err
	}
	s.chats.LoadMessages(chatID, msgs)
	return msgs, nil
}

// SendMessage posts over REST and applies the stored message from the response
func (s *Session) SendMessage(ctx context.Context, chatID string, params models.SendMessageParams) (*models.Message, error) {
	msg, err := s.api.SendMessage(ctx, chatID, params)
	if err != nil {
		return nil, err
	}
	s.chats.AppendMessage(*msg)
	return msg, nil
}

// SendMessageRealtime emits over the socket only; the message reaches the store when the server echoes it
func (s *Session) SendMessageRealtime(ctx context.Context, chatID string, params models.SendMessageParams) error {
	conn, err := s.activeConn()
	if err != nil {
		return err
	}
	return conn.SendMessage(ctx, chatID, params)
}

// MarkRead marks a message read for the signed in user
func (s *Session) MarkRead(ctx context.Context, chatID, messageID string) error {
	userID, err := s.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.api.MarkMessageRead(ctx, chatID, messageID); err != nil {
		return err
	}
	s.chats.MarkRead(messageID, userID)
	return nil
}
