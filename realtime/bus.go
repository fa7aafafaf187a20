package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"livechat/logging"
	"livechat/models"
)

// Subscription is the handle returned by Subscribe. Unsubscribe may be called any number of times.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

type handler struct {
	id uint64
	fn func(json.RawMessage)
}

// Bus routes incoming realtime events to typed handlers
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[string][]handler
	log      *slog.Logger
}

func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{handlers: make(map[string][]handler), log: log}
}

// Subscribe registers fn for event. The payload is decoded into T before fn is called;
// payloads that do not decode are logged and dropped.
func Subscribe[T any](b *Bus, event string, fn func(T)) *Subscription {
	return b.add(event, func(raw json.RawMessage) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			b.log.Warn("realtime - dispatch - payload decode failed", logging.Event(event), logging.Err(err))
			return
		}
		fn(v)
	})
}

func (b *Bus) add(event string, fn func(json.RawMessage)) *Subscription {
	b.mu.Lock()
	b.next++
	id := b.next
	b.handlers[event] = append(b.handlers[event], handler{id: id, fn: fn})
	b.mu.Unlock()

	return &Subscription{cancel: func() { b.remove(event, id) }}
}

func (b *Bus) remove(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	hs := b.handlers[event]
	for i, h := range hs {
		if h.id == id {
			b.handlers[event] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	if len(b.handlers[event]) == 0 {
		delete(b.handlers, event)
	}
}

// Dispatch delivers env to every handler of its event, in subscription order,
// and returns how many handlers were called
func (b *Bus) Dispatch(env models.Envelope) int {
	b.mu.RLock()
	hs := append([]handler(nil), b.handlers[env.Event]...)
	b.mu.RUnlock()

	if len(hs) == 0 {
		b.log.Debug("realtime - dispatch - no handler", logging.Event(env.Event))
	}
	for _, h := range hs {
		h.fn(env.Data)
	}
	return len(hs)
}

func (b *Bus) OnNewMessage(fn func(models.Message)) *Subscription {
	return Subscribe(b, models.EventNewMessage, fn)
}

func (b *Bus) OnNewChat(fn func(models.Chat)) *Subscription {
	return Subscribe(b, models.EventNewChat, fn)
}

func (b *Bus) OnFriendRequest(fn func(models.FriendRequest)) *Subscription {
	return Subscribe(b, models.EventFriendRequest, fn)
}

func (b *Bus) OnFriendAccepted(fn func(models.FriendAcceptedEvent)) *Subscription {
	return Subscribe(b, models.EventFriendAccepted, fn)
}

func (b *Bus) OnFriendRejected(fn func(models.FriendRejectedEvent)) *Subscription {
	return Subscribe(b, models.EventFriendRejected, fn)
}
