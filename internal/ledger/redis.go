package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the set that mirrors the tracker identities.
const DefaultRedisKey = "job-hunter:seen"

// SetStore is the part of the Redis client the ledger needs.
type SetStore interface {
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
}

type RedisSource struct {
	store SetStore
	key   string
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisSource(store SetStore, key string) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSource{store: store, key: key}
}

func (s *RedisSource) Key() string {
	return s.key
}

// Load reads the mirrored identities.
func (s *RedisSource) Load(ctx context.Context) (Seen, error) {
	ids, err := s.store.SMembers(ctx, s.key).Result()
	if err != nil {
		return NewSeen(), fmt.Errorf("load seen set %s: %w", s.key, err)
	}
	return NewSeen(ids...), nil
}

// Remember adds identities to the mirrored set and returns how many of them
// were new.
func (s *RedisSource) Remember(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, id)
	}

	added, err := s.store.SAdd(ctx, s.key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("remember seen ids in %s: %w", s.key, err)
	}
	return added, nil
}
