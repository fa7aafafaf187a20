// Package handlers applies realtime pushes to the local stores.
package handlers

import (
	"context"
	"log/slog"
	"sync"

	"livechat/realtime"
	"livechat/store"
)

// Joiner subscribes the realtime connection to chats. *realtime.Conn satisfies it.
type Joiner interface {
	JoinChats(ctx context.Context, chatIDs []string) error
}

type Deps struct {
	Chats   *store.Store
	Friends *store.FriendStore
	Users   *store.UserStore
	Joiner  Joiner
	Log     *slog.Logger
}

// Handle owns every subscription made by Register
type Handle struct {
	once sync.Once
	subs []*realtime.Subscription
}

// Close unsubscribes all handlers. Safe to call more than once.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		for _, s := range h.subs {
			s.Unsubscribe()
		}
	})
}

// Register subscribes the store handlers on bus. Stores left nil in deps are skipped.
func Register(bus *realtime.Bus, deps Deps) *Handle {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	deps.Log = deps.Log.With("component", "handlers")

	h := &Handle{}
	if deps.Chats != nil {
		h.subs = append(h.subs,
			bus.OnNewMessage(newMessageHandler(deps)),
			bus.OnNewChat(newChatHandler(deps)),
		)
	}
	if deps.Friends != nil {
		h.subs = append(h.subs,
			bus.OnFriendRequest(friendRequestHandler(deps)),
			bus.OnFriendAccepted(friendAcceptedHandler(deps)),
			bus.OnFriendRejected(friendRejectedHandler(deps)),
		)
	}
	return h
}
