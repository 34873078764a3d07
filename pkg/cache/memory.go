package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore layers LRU capacity eviction over a go-cache TTL core. The
// TTL core owns expiry and the janitor sweep; the order index owns recency.
// When the store is at capacity a write evicts the least-recently-touched
// key, independent of its remaining TTL.
type MemoryStore struct {
	ttl      *gocache.Cache
	capacity int

	mu        sync.Mutex
	order     *list.List // front = most recently used
	index     map[string]*list.Element
	hits      uint64
	misses    uint64
	evictions uint64
}

func NewMemoryStore(capacity int, defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 500
	}
	return &MemoryStore{
		ttl:      gocache.New(defaultTTL, cleanupInterval),
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, found := s.ttl.Get(key)
	if !found {
		// The TTL core may have expired the entry behind the index's back.
		if el, ok := s.index[key]; ok {
			s.order.Remove(el)
			delete(s.index, key)
		}
		s.misses++
		return nil, false
	}

	if el, ok := s.index[key]; ok {
		s.order.MoveToFront(el)
	}
	s.hits++
	return v.([]byte), true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.index[key]; ok {
		s.order.MoveToFront(el)
		s.ttl.Set(key, value, ttl)
		return
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			oldKey := oldest.Value.(string)
			s.order.Remove(oldest)
			delete(s.index, oldKey)
			s.ttl.Delete(oldKey)
			s.evictions++
		}
	}

	s.index[key] = s.order.PushFront(key)
	s.ttl.Set(key, value, ttl)
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.index[key]; ok {
		s.order.Remove(el)
		delete(s.index, key)
	}
	s.ttl.Delete(key)
}

func (s *MemoryStore) Flush(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ttl.Flush()
	s.order.Init()
	s.index = make(map[string]*list.Element)
}

func (s *MemoryStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Size:      s.order.Len(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

var _ Store = (*MemoryStore)(nil)
