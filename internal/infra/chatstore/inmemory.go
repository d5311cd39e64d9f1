package chatstore

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
)

// Redisなしで動かすとき・テスト用。
type InMemoryTranscriptStore struct {
	mu          sync.RWMutex
	transcripts map[int64][]model.ChatMessage
}

func NewInMemoryTranscriptStore() *InMemoryTranscriptStore {
	return &InMemoryTranscriptStore{
		transcripts: make(map[int64][]model.ChatMessage),
	}
}

func (s *InMemoryTranscriptStore) Load(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.transcripts[userID]
	if !ok {
		return []model.ChatMessage{}, nil
	}

	out := make([]model.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *InMemoryTranscriptStore) Save(ctx context.Context, userID int64, messages []model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]model.ChatMessage, len(messages))
	copy(cp, messages)
	s.transcripts[userID] = cp
	return nil
}
