package settings

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis backs the narrow RedisClient interface with a map.
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func newTestStore() (*RedisStore, *fakeRedis) {
	fake := newFakeRedis()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedisStore(fake, logger), fake
}

func TestRedisStoreAPIKey(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	key, err := store.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", key)

	require.NoError(t, store.SetAPIKey(ctx, "sk-test"))

	key, err = store.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)
}

func TestRedisStoreEmojiRequestLifecycle(t *testing.T) {
	store, fake := newTestStore()
	ctx := context.Background()

	req, err := store.CreateEmojiRequest(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, StatusFetching, req.Status)
	assert.Equal(t, requestTTL, fake.ttls[emojiKeyPrefix+req.ID])

	require.NoError(t, store.CompleteEmojiRequest(ctx, req.ID, "🎉"))

	got, err := store.GetEmojiRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Equal(t, "🎉", got.Result)
	assert.Empty(t, got.Error)
}

func TestRedisStoreEmojiRequestFailure(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	req, err := store.CreateEmojiRequest(ctx)
	require.NoError(t, err)

	require.NoError(t, store.FailEmojiRequest(ctx, req.ID, "upstream unavailable"))

	got, err := store.GetEmojiRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "upstream unavailable", got.Error)
	assert.Empty(t, got.Result)
}

func TestRedisStoreUnknownRequest(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.GetEmojiRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	assert.ErrorIs(t, store.CompleteEmojiRequest(context.Background(), "missing", "🙂"), ErrRequestNotFound)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetAPIKey(ctx, "sk-mem"))
	key, err := store.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-mem", key)

	req, err := store.CreateEmojiRequest(ctx)
	require.NoError(t, err)

	require.NoError(t, store.CompleteEmojiRequest(ctx, req.ID, "🚀"))
	got, err := store.GetEmojiRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, got.Status)
	assert.Equal(t, "🚀", got.Result)

	_, err = store.GetEmojiRequest(ctx, "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
