package store

import "sync"

// Subscription is the handle returned by Subscribe. Unsubscribe may be called any number of times.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops further notifications
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners keeps registration order so notifications are delivered deterministically
type listeners[T any] struct {
	mu    sync.Mutex
	next  uint64
	items []listener[T]
}

func (l *listeners[T]) add(fn func(T)) *Subscription {
	l.mu.Lock()
	l.next++
	id := l.next
	l.items = append(l.items, listener[T]{id: id, fn: fn})
	l.mu.Unlock()

	return &Subscription{cancel: func() { l.remove(id) }}
}

func (l *listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if it.id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

// notify must be called without holding the owning store's lock
func (l *listeners[T]) notify(v T) {
	l.mu.Lock()
	items := append([]listener[T](nil), l.items...)
	l.mu.Unlock()
	for _, it := range items {
		it.fn(v)
	}
}
