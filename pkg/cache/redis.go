package cache

import (
	"context"
	"sync/atomic"

	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the answer cache with Redis so replicas share hits.
// Redis owns both TTL and memory policy; LRU behavior comes from the
// server's maxmemory-policy, not from this client.
type RedisStore struct {
	client *redis.Client
	prefix string

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return v, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	// Best-effort: a write failure is a cache miss later, not a request error.
	_ = s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	_ = s.client.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) Flush(ctx context.Context) {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = s.client.Del(ctx, iter.Val()).Err()
	}
}

func (s *RedisStore) Stats() Stats {
	stats := Stats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

var _ Store = (*RedisStore)(nil)
