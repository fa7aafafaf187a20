package store

import (
	"livechat/logging"
	"livechat/models"
)

// ReplaceChats replaces the chat list with the server's list, which is already in recency order.
// Repeated identifiers keep their first occurrence.
func (s *Store) ReplaceChats(list []models.Chat) {
	s.update(func() bool {
		chats := make([]models.Chat, 0, len(list))
		seen := make(map[string]bool, len(list))
		for _, c := range list {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			chats = append(chats, normalizeChat(c))
		}
		s.chats = chats
		return true
	})
	s.log.Debug("store - replace chats", "count", len(list))
}

// UpsertChat moves chat to the head of the list, replacing any entry with the same identifier
func (s *Store) UpsertChat(chat models.Chat) {
	s.update(func() bool {
		s.chats = moveToFront(s.chats, normalizeChat(chat))
		return true
	})
}

// InsertNewChat adds chat at the head unless its identifier is already present.
// Duplicate delivery of a new-chat notification is therefore harmless.
func (s *Store) InsertNewChat(chat models.Chat) bool {
	inserted := s.update(func() bool {
		if indexOfChat(s.chats, chat.ID) >= 0 {
			return false
		}
		s.chats = append([]models.Chat{normalizeChat(chat)}, s.chats...)
		return true
	})
	if !inserted {
		s.log.Debug("store - insert new chat - already present", logging.Chat(chat.ID))
	}
	return inserted
}

// SetCurrent opens chat (nil closes the current one) and always clears the loaded messages,
// even when chat is already current.
func (s *Store) SetCurrent(chat *models.Chat) {
	s.update(func() bool {
		if chat == nil {
			s.current = nil
		} else {
			c := normalizeChat(*chat)
			s.current = &c
		}
		s.messages = nil
		return true
	})
}

// RefreshCurrent replaces the payload of the open chat without touching its messages.
// It does nothing when chat is not the open chat.
func (s *Store) RefreshCurrent(chat models.Chat) bool {
	return s.update(func() bool {
		if s.current == nil || s.current.ID != chat.ID {
			return false
		}
		c := normalizeChat(chat)
		s.current = &c
		return true
	})
}

func indexOfChat(chats []models.Chat, id string) int {
	for i := range chats {
		if chats[i].ID == id {
			return i
		}
	}
	return -1
}

// moveToFront removes any chat sharing c's identifier and prepends c
func moveToFront(chats []models.Chat, c models.Chat) []models.Chat {
	out := make([]models.Chat, 0, len(chats)+1)
	out = append(out, c)
	for _, existing := range chats {
		if existing.ID != c.ID {
			out = append(out, existing)
		}
	}
	return out
}

// normalizeChat copies c and drops repeated participants
func normalizeChat(c models.Chat) models.Chat {
	out := c.Clone()
	if len(out.Participants) < 2 {
		return out
	}
	seen := make(map[string]bool, len(out.Participants))
	participants := out.Participants[:0]
	for _, p := range out.Participants {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		participants = append(participants, p)
	}
	out.Participants = participants
	return out
}
