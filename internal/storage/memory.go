package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xaenox/stocksense/internal/models"
)

type MemoryStorage struct {
	mu            sync.RWMutex
	conversations map[string]time.Time
	messages      map[string][]models.Message
	tickerViews   []string
	nextID        int64
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		conversations: make(map[string]time.Time),
		messages:      make(map[string][]models.Message),
	}
}

func (s *MemoryStorage) CreateConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[id] = time.Now()
	return nil
}

func (s *MemoryStorage) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, id)
	delete(s.conversations, id)
	return nil
}

func (s *MemoryStorage) SaveMessage(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[msg.ConversationID]; !exists {
		return fmt.Errorf("conversation %s not found", msg.ConversationID)
	}

	s.nextID++
	msg.ID = s.nextID
	msg.CreatedAt = time.Now()
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], *msg)
	return nil
}

func (s *MemoryStorage) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Messages are appended under the lock, so slice order is insertion order.
	msgs := s.messages[conversationID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStorage) RecordTickerView(ctx context.Context, ticker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickerViews = append(s.tickerViews, ticker)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
