package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/internal/infrastructure/cache"
)

// HistoryStore keeps a short, non-authoritative list of recent searches.
type HistoryStore interface {
	Record(ctx context.Context, userID uuid.UUID, entry model.SearchEntry) error
	Recent(ctx context.Context, userID uuid.UUID) ([]model.SearchEntry, error)
}

type redisHistoryStore struct {
	redis *cache.RedisClient
	size  int
	ttl   time.Duration
}

func NewRedisHistoryStore(client *cache.RedisClient, size int, ttl time.Duration) HistoryStore {
	return &redisHistoryStore{redis: client, size: size, ttl: ttl}
}

func (s *redisHistoryStore) key(userID uuid.UUID) string {
	return s.redis.Key("search_history", userID.String())
}

// Record pushes the entry to the head of the list and trims the tail.
func (s *redisHistoryStore) Record(ctx context.Context, userID uuid.UUID, entry model.SearchEntry) error {
	if s.size == 0 {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode search entry: %w", err)
	}

	key := s.key(userID)
	pipe := s.redis.Client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(s.size-1))
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

func (s *redisHistoryStore) Recent(ctx context.Context, userID uuid.UUID) ([]model.SearchEntry, error) {
	raw, err := s.redis.Client.LRange(ctx, s.key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}

	out := make([]model.SearchEntry, 0, len(raw))
	for _, item := range raw {
		var e model.SearchEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
