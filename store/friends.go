package store

import (
	"log/slog"
	"sync"

	"livechat/models"
)

// FriendState is a snapshot of friend requests and accepted friends
type FriendState struct {
	Requests []models.FriendRequest
	Friends  []models.User
}

// FriendStore keeps pending friend requests and accepted friends. Neither list is recency ordered.
type FriendStore struct {
	mu       sync.Mutex
	requests []models.FriendRequest
	friends  []models.User

	subs listeners[FriendState]
	log  *slog.Logger
}

func NewFriendStore(log *slog.Logger) *FriendStore {
	if log == nil {
		log = slog.Default()
	}
	return &FriendStore{log: log.With(slog.String("component", "friend_store"))}
}

func (s *FriendStore) Subscribe(fn func(FriendState)) *Subscription {
	return s.subs.add(fn)
}

func (s *FriendStore) Snapshot() FriendState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetRequests replaces the request list
func (s *FriendStore) SetRequests(list []models.FriendRequest) {
	s.update(func() bool {
		s.requests = uniqueRequests(list)
		return true
	})
}

// SetFriends replaces the friend list
func (s *FriendStore) SetFriends(list []models.User) {
	s.update(func() bool {
		s.friends = uniqueUsers(list)
		return true
	})
}

// AddRequest appends a request unless one with the same identifier is known
func (s *FriendStore) AddRequest(req models.FriendRequest) bool {
	return s.update(func() bool {
		for _, r := range s.requests {
			if r.ID == req.ID {
				return false
			}
		}
		s.requests = append(s.requests, req)
		return true
	})
}

// RemoveRequest drops the request with the given identifier
func (s *FriendStore) RemoveRequest(id string) bool {
	return s.update(func() bool {
		return s.removeRequestLocked(id)
	})
}

// AcceptRequest removes the request and, when friend is known, adds it to the friend list
func (s *FriendStore) AcceptRequest(requestID string, friend *models.User) bool {
	return s.update(func() bool {
		removed := s.removeRequestLocked(requestID)
		added := false
		if friend != nil && friend.ID != "" {
			added = s.addFriendLocked(*friend)
		}
		return removed || added
	})
}

func (s *FriendStore) removeRequestLocked(id string) bool {
	for i, r := range s.requests {
		if r.ID == id {
			s.requests = append(s.requests[:i:i], s.requests[i+1:]...)
			return true
		}
	}
	return false
}

func (s *FriendStore) addFriendLocked(user models.User) bool {
	for _, f := range s.friends {
		if f.ID == user.ID {
			return false
		}
	}
	s.friends = append(s.friends, user)
	return true
}

func (s *FriendStore) update(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	var snap FriendState
	if changed {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.subs.notify(snap)
	}
	return changed
}

func (s *FriendStore) snapshotLocked() FriendState {
	return FriendState{
		Requests: append([]models.FriendRequest{}, s.requests...),
		Friends:  append([]models.User{}, s.friends...),
	}
}

func uniqueRequests(list []models.FriendRequest) []models.FriendRequest {
	out := make([]models.FriendRequest, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, r := range list {
		if !seen[r.ID] {
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out
}

func uniqueUsers(list []models.User) []models.User {
	out := make([]models.User, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, u := range list {
		if !seen[u.ID] {
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	return out
}
