package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Options configures the client. Zero values fall back to go-redis defaults.
type Options struct {
	Addr     string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// KeyPrefix is prepended to every key built with Key.
	KeyPrefix string
}

// RedisClient wraps the go-redis client with the service's key namespace.
// Redis only holds disposable data here, so callers treat it as optional.
type RedisClient struct {
	Client *redis.Client
	prefix string
}

func NewRedisClient(opts Options) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			Password:     opts.Password,
			DB:           opts.DB,
			PoolSize:     opts.PoolSize,
			MinIdleConns: opts.MinIdleConns,
			MaxRetries:   opts.MaxRetries,
			DialTimeout:  opts.DialTimeout,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		}),
		prefix: strings.TrimSuffix(opts.KeyPrefix, ":"),
	}
}

// Key joins parts with ":" under the configured prefix, e.g.
// Key("search_history", id) -> "accessrating:search_history:<id>".
func (r *RedisClient) Key(parts ...string) string {
	key := strings.Join(parts, ":")
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *RedisClient) Connect(ctx context.Context) error {
	addr := r.Client.Options().Addr
	log.Info().Str("addr", addr).Msg("[REDIS] connecting")

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s failed: %w", addr, err)
	}

	log.Info().Str("addr", addr).Int("pool_size", r.Client.Options().PoolSize).Msg("[REDIS] connected")
	return nil
}

// HealthCheck pings with a two second budget for /health.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *RedisClient) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
