package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	apiKeyKey      = "autoji:settings:api_key"
	emojiKeyPrefix = "autoji:emoji:request:"
	requestTTL     = 10 * time.Minute
)

var ErrRequestNotFound = errors.New("emoji request not found")

type EmojiStatus string

const (
	StatusFetching EmojiStatus = "fetching"
	StatusSuccess  EmojiStatus = "success"
	StatusError    EmojiStatus = "error"
)

// EmojiRequest tracks one in-flight emoji suggestion so clients can poll
// for the result instead of holding a connection open.
type EmojiRequest struct {
	ID        string      `json:"id"`
	Status    EmojiStatus `json:"status"`
	Result    string      `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Store holds user settings and transient emoji request state.
type Store interface {
	SetAPIKey(ctx context.Context, key string) error
	// APIKey returns the stored key, or "" when none has been saved.
	APIKey(ctx context.Context) (string, error)
	CreateEmojiRequest(ctx context.Context) (*EmojiRequest, error)
	CompleteEmojiRequest(ctx context.Context, id, result string) error
	FailEmojiRequest(ctx context.Context, id, message string) error
	GetEmojiRequest(ctx context.Context, id string) (*EmojiRequest, error)
}

// RedisClient is the slice of go-redis the store uses (for testing).
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps settings in Redis. The API key is persistent; emoji
// requests expire after a short TTL since callers only poll them briefly.
type RedisStore struct {
	client RedisClient
	logger *slog.Logger
}

func NewRedisStore(client RedisClient, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With("component", "settings"),
	}
}

func (s *RedisStore) SetAPIKey(ctx context.Context, key string) error {
	if err := s.client.Set(ctx, apiKeyKey, key, 0).Err(); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	s.logger.Info("API key updated")
	return nil
}

func (s *RedisStore) APIKey(ctx context.Context) (string, error) {
	key, err := s.client.Get(ctx, apiKeyKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return key, nil
}

func (s *RedisStore) CreateEmojiRequest(ctx context.Context) (*EmojiRequest, error) {
	req := &EmojiRequest{
		ID:        uuid.New().String(),
		Status:    StatusFetching,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.saveRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RedisStore) CompleteEmojiRequest(ctx context.Context, id, result string) error {
	req, err := s.GetEmojiRequest(ctx, id)
	if err != nil {
		return err
	}
	req.Status = StatusSuccess
	req.Result = result
	req.Error = ""
	return s.saveRequest(ctx, req)
}

func (s *RedisStore) FailEmojiRequest(ctx context.Context, id, message string) error {
	req, err := s.GetEmojiRequest(ctx, id)
	if err != nil {
		return err
	}
	req.Status = StatusError
	req.Error = message
	req.Result = ""
	return s.saveRequest(ctx, req)
}

func (s *RedisStore) GetEmojiRequest(ctx context.Context, id string) (*EmojiRequest, error) {
	data, err := s.client.Get(ctx, emojiKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read emoji request: %w", err)
	}

	req := &EmojiRequest{}
	if err := json.Unmarshal([]byte(data), req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal emoji request: %w", err)
	}
	return req, nil
}

func (s *RedisStore) saveRequest(ctx context.Context, req *EmojiRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal emoji request: %w", err)
	}
	if err := s.client.Set(ctx, emojiKeyPrefix+req.ID, data, requestTTL).Err(); err != nil {
		return fmt.Errorf("failed to store emoji request: %w", err)
	}
	return nil
}
