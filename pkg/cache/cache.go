// Package cache provides the engine's two response caches: a process-local
// TTL store with LRU capacity eviction, and an optional Redis-backed store
// for deployments that share answers across instances. Values are opaque
// byte payloads; callers marshal.
package cache

import (
	"context"
	"time"
)

// Store is the contract both backends satisfy. All operations are
// best-effort: a failing cache never fails a request.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Flush(ctx context.Context)
	Stats() Stats
}

// Stats reports cache effectiveness for the health endpoint.
type Stats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hitRate"`
}

// Retrieval-cache TTL tiers. A query that produced a healthy candidate set
// is worth keeping for the full window; an empty result may be a transient
// store hiccup and must not be pinned.
const (
	RichResultTTL  = 1 * time.Hour
	ThinResultTTL  = 15 * time.Minute
	EmptyResultTTL = 1 * time.Minute

	richResultThreshold = 5
)

// TieredTTL picks the retrieval-cache TTL for a result set of the given size.
func TieredTTL(resultCount int) time.Duration {
	switch {
	case resultCount >= richResultThreshold:
		return RichResultTTL
	case resultCount > 0:
		return ThinResultTTL
	default:
		return EmptyResultTTL
	}
}
