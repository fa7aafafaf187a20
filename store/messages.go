package store

import (
	"sort"

	"livechat/logging"
	"livechat/models"
)

// LoadMessages replaces the message list with a fetched history for chatID, sorted by creation time.
// A response for a chat that is no longer open is dropped and false is returned: switching chats
// does not cancel the fetch, so a late response must not overwrite the newly opened chat.
func (s *Store) LoadMessages(chatID string, list []models.Message) bool {
	applied := s.update(func() bool {
		if s.currentIDLocked() != chatID || chatID == "" {
			return false
		}
		msgs := make([]models.Message, 0, len(list))
		seen := make(map[string]bool, len(list))
		for _, m := range list {
			if m.Chat != chatID || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			msgs = append(msgs, m.Clone())
		}
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		})
		s.messages = msgs
		return true
	})
	if !applied {
		s.log.Debug("store - load messages - stale response dropped", logging.Chat(chatID))
	}
	return applied
}

// AppendMessage applies a message that arrived from a send response or a realtime push.
// A message already in the list is ignored entirely. Otherwise it is appended when it belongs
// to the open chat, and the owning chat, if listed, takes it as its last message and moves to
// the head of the chat list. It reports whether the message list changed.
func (s *Store) AppendMessage(msg models.Message) bool {
	var appended bool
	s.update(func() bool {
		if indexOfMessage(s.messages, msg.ID) >= 0 {
			return false
		}
		if s.current != nil && s.current.ID == msg.Chat {
			s.messages = append(s.messages, msg.Clone())
			touchChat(s.current, msg)
			appended = true
		}
		i := indexOfChat(s.chats, msg.Chat)
		if i < 0 {
			return appended
		}
		c := s.chats[i]
		touchChat(&c, msg)
		s.chats = moveToFront(s.chats, c)
		return true
	})
	if !appended {
		s.log.Debug("store - append message - not appended", logging.Chat(msg.Chat), logging.Message(msg.ID))
	}
	return appended
}

// MarkRead records userID as a reader of the loaded message messageID
func (s *Store) MarkRead(messageID, userID string) bool {
	return s.update(func() bool {
		i := indexOfMessage(s.messages, messageID)
		if i < 0 || s.messages[i].ReadByUser(userID) {
			return false
		}
		s.messages[i].ReadBy = append(s.messages[i].ReadBy, userID)
		return true
	})
}

func touchChat(c *models.Chat, msg models.Message) {
	m := msg.Clone()
	at := msg.CreatedAt
	c.LastMessage = &m
	c.LastMessageAt = &at
	c.UpdatedAt = at
}

func indexOfMessage(msgs []models.Message, id string) int {
	for i := range msgs {
		if msgs[i].ID == id {
			return i
		}
	}
	return -1
}
