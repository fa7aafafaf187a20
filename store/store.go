// Package store holds the in-memory projection of chats, messages, friends
// and users that the client renders. Every change goes through a store
// operation; REST responses and realtime events may arrive in any order and
// more than once, and the operations are written to converge regardless.
package store

import (
	"log/slog"
	"sync"

	"livechat/models"
)

// State is an immutable view of the chat store. Version increases with every change,
// so a listener can discard a snapshot older than one it already handled.
type State struct {
	Version  uint64
	Chats    []models.Chat
	Current  *models.Chat
	Messages []models.Message
}

// CurrentChatID returns the identifier of the open chat, or "" when none is open
func (s State) CurrentChatID() string {
	if s.Current == nil {
		return ""
	}
	return s.Current.ID
}

// Store is the chat/message reconciler
type Store struct {
	mu       sync.Mutex
	version  uint64
	chats    []models.Chat
	current  *models.Chat
	messages []models.Message

	subs listeners[State]
	log  *slog.Logger
}

func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log.With(slog.String("component", "store"))}
}

// Subscribe registers fn to receive a snapshot after every change
func (s *Store) Subscribe(fn func(State)) *Subscription {
	return s.subs.add(fn)
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Chats() []models.Chat       { return s.Snapshot().Chats }
func (s *Store) Messages() []models.Message { return s.Snapshot().Messages }
func (s *Store) CurrentChatID() string      { return s.Snapshot().CurrentChatID() }

// Chat looks up a chat in the list by identifier
func (s *Store) Chat(id string) (models.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOfChat(s.chats, id); i >= 0 {
		return s.chats[i].Clone(), true
	}
	return models.Chat{}, false
}

// update runs fn under the lock and notifies subscribers when fn reports a change
func (s *Store) update(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	var snap State
	if changed {
		s.version++
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.subs.notify(snap)
	}
	return changed
}

func (s *Store) snapshotLocked() State {
	st := State{
		Version:  s.version,
		Chats:    make([]models.Chat, len(s.chats)),
		Messages: make([]models.Message, len(s.messages)),
	}
	for i, c := range s.chats {
		st.Chats[i] = c.Clone()
	}
	for i, m := range s.messages {
		st.Messages[i] = m.Clone()
	}
	if s.current != nil {
		c := s.current.Clone()
		st.Current = &c
	}
	return st
}

func (s *Store) currentIDLocked() string {
	if s.current == nil {
		return ""
	}
	return s.current.ID
}
