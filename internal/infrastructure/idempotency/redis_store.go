package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix  = "authhook:sent:"
	defaultTTL = 24 * time.Hour
)

// RedisStore remembers webhook ids that were already dispatched.
type RedisStore struct {
	rdb *redis.Client
	lg  zerolog.Logger
}

// NewRedisClient dials and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisStore(rdb *redis.Client, lg zerolog.Logger) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		lg:  lg.With().Str("component", "idem_store").Logger(),
	}
}

// Seen reports whether id was marked as sent.
func (s *RedisStore) Seen(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("empty key")
	}
	n, err := s.rdb.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkSent records id for ttl (24h when ttl is not positive). Marking an
// id twice is not an error.
func (s *RedisStore) MarkSent(ctx context.Context, id string, ttl time.Duration) error {
	if id == "" {
		return fmt.Errorf("empty key")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return s.rdb.Set(ctx, keyPrefix+id, "1", ttl).Err()
}
