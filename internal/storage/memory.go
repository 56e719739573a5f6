package storage

import (
	"context"
	"sync"

	"github.com/yndnr/smsauth/internal/core/domain"
)

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the token or domain.ErrNoToken.
func (m *MemoryStore) Load(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", domain.ErrNoToken
	}
	return m.token, nil
}

// Save stores token.
func (m *MemoryStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Remove clears the slot.
func (m *MemoryStore) Remove(ctx context.Context) error {
	return m.Save(ctx, "")
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
