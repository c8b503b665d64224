package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/internal/infrastructure/cache"
)

func newHistoryStore(t *testing.T, size int) *redisHistoryStore {
	t.Helper()
	client := cache.NewRedisClient(cache.Options{Addr: "localhost:6379", KeyPrefix: "accessrating"})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisHistoryStore(client, size, time.Hour).(*redisHistoryStore)
}

func TestHistoryKey_IsNamespacedPerUser(t *testing.T) {
	store := newHistoryStore(t, 20)
	id := uuid.New()

	assert.Equal(t, "accessrating:search_history:"+id.String(), store.key(id))
	assert.NotEqual(t, store.key(id), store.key(uuid.New()))
}

func TestHistoryRecord_DisabledWhenSizeIsZero(t *testing.T) {
	store := newHistoryStore(t, 0)

	err := store.Record(context.Background(), uuid.New(), model.SearchEntry{Query: "city=leeds"})

	assert.NoError(t, err)
}
