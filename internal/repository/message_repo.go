package repository

import (
	"context"
	"sync"

	"minichat/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListByUserID(ctx context.Context, userID string) ([]domain.Message, error)
}

// MemoryMessageRepository guarda el transcript en memoria mientras vive el proceso.
type MemoryMessageRepository struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{byUser: make(map[string][]domain.Message)}
}

func (r *MemoryMessageRepository) Create(_ context.Context, message domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[message.UserID] = append(r.byUser[message.UserID], message)
	return nil
}

// ListByUserID devuelve una copia en orden de inserción.
func (r *MemoryMessageRepository) ListByUserID(_ context.Context, userID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.byUser[userID]
	messages := make([]domain.Message, len(stored))
	copy(messages, stored)
	return messages, nil
}
