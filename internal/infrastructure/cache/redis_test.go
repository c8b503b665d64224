package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_AppliesOptions(t *testing.T) {
	r := NewRedisClient(Options{
		Addr:        "cache.internal:6380",
		DB:          2,
		PoolSize:    32,
		ReadTimeout: 750 * time.Millisecond,
	})
	defer r.Close()

	opts := r.Client.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 32, opts.PoolSize)
	assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"accessrating", "accessrating:search_history:42"},
		{"accessrating:", "accessrating:search_history:42"},
		{"", "search_history:42"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			r := NewRedisClient(Options{Addr: "localhost:6379", KeyPrefix: tt.prefix})
			defer r.Close()

			assert.Equal(t, tt.want, r.Key("search_history", "42"))
		})
	}
}

func TestNilClient(t *testing.T) {
	var r *RedisClient

	assert.Error(t, r.HealthCheck(context.Background()))
	assert.NoError(t, r.Close())
}
