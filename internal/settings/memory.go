package settings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the fallback when no Redis instance is configured.
// Settings last for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	apiKey   string
	requests map[string]*EmojiRequest
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: make(map[string]*EmojiRequest)}
}

func (s *MemoryStore) SetAPIKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
	return nil
}

func (s *MemoryStore) APIKey(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey, nil
}

func (s *MemoryStore) CreateEmojiRequest(ctx context.Context) (*EmojiRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &EmojiRequest{
		ID:        uuid.New().String(),
		Status:    StatusFetching,
		CreatedAt: time.Now().UTC(),
	}
	s.requests[req.ID] = req

	copied := *req
	return &copied, nil
}

func (s *MemoryStore) CompleteEmojiRequest(ctx context.Context, id, result string) error {
	return s.update(id, func(req *EmojiRequest) {
		req.Status = StatusSuccess
		req.Result = result
		req.Error = ""
	})
}

func (s *MemoryStore) FailEmojiRequest(ctx context.Context, id, message string) error {
	return s.update(id, func(req *EmojiRequest) {
		req.Status = StatusError
		req.Error = message
		req.Result = ""
	})
}

func (s *MemoryStore) GetEmojiRequest(ctx context.Context, id string) (*EmojiRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}

	copied := *req
	return &copied, nil
}

func (s *MemoryStore) update(id string, apply func(*EmojiRequest)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	apply(req)
	return nil
}
