package auth

import (
	"context"
	"sync"
)

// TokenKey is the name the bearer token is persisted under
const TokenKey = "live_chat_token"

// CredentialStore persists the single bearer token of the signed-in account.
// Token returns ErrMissingToken when nothing is stored.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryStore keeps the token for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", ErrMissingToken
	}
	return m.token, nil
}

func (m *MemoryStore) SaveToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ClearToken(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
