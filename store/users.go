package store

import (
	"log/slog"
	"sync"

	"livechat/models"
)

// UserState holds the last list or search result and the users looked up by identifier
type UserState struct {
	Users  []models.User
	Cached map[string]models.User
}

// UserStore is the user directory
type UserStore struct {
	mu     sync.Mutex
	users  []models.User
	cached map[string]models.User

	subs listeners[UserState]
	log  *slog.Logger
}

func NewUserStore(log *slog.Logger) *UserStore {
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		cached: make(map[string]models.User),
		log:    log.With(slog.String("component", "user_store")),
	}
}

func (s *UserStore) Subscribe(fn func(UserState)) *Subscription {
	return s.subs.add(fn)
}

func (s *UserStore) Snapshot() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// User returns a user from the cache
func (s *UserStore) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.cached[id]
	return u, ok
}

// SetUsers replaces the list with a list or search result
func (s *UserStore) SetUsers(list []models.User) {
	s.update(func() {
		s.users = uniqueUsers(list)
	})
}

// CacheUser stores a user fetched by identifier
func (s *UserStore) CacheUser(u models.User) {
	s.update(func() {
		s.cached[u.ID] = u
	})
}

// ApplyUpdate merges an accepted update into the cache and the list wherever the user appears
func (s *UserStore) ApplyUpdate(id string, params models.UpdateUserParams) {
	s.update(func() {
		if u, ok := s.cached[id]; ok {
			s.cached[id] = params.Apply(u)
		}
		for i := range s.users {
			if s.users[i].ID == id {
				s.users[i] = params.Apply(s.users[i])
			}
		}
	})
}

func (s *UserStore) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.subs.notify(snap)
}

func (s *UserStore) snapshotLocked() UserState {
	st := UserState{
		Users:  append([]models.User{}, s.users...),
		Cached: make(map[string]models.User, len(s.cached)),
	}
	for k, v := range s.cached {
		st.Cached[k] = v
	}
	return st
}
