package conversation

import (
	"container/list"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Manager stores sessions with a sliding TTL, a janitor sweep for idle
// expiry, and LRU eviction at capacity. Every read or write pushes the
// session's expiry forward.
//
// Stored states never leave the manager: mu serializes every
// read-modify-write, and readers only ever see snapshots, so concurrent
// turns on one session cannot race.
type Manager struct {
	sessions *gocache.Cache
	ttl      time.Duration
	capacity int
	logger   *zap.Logger

	mu    sync.Mutex
	order *list.List // front = most recently used
	index map[string]*list.Element
}

// NewManager builds a session store. A zero ttl defaults to 30 minutes, a
// zero capacity to 1000 sessions; the sweep interval bounds how long an
// expired idle session can linger.
func NewManager(ttl time.Duration, capacity int, sweepInterval time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if capacity <= 0 {
		capacity = 1000
	}
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	m := &Manager{
		sessions: gocache.New(ttl, sweepInterval),
		ttl:      ttl,
		capacity: capacity,
		logger:   logger,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
	m.sessions.OnEvicted(func(key string, _ interface{}) {
		m.dropIndexEntry(key)
	})
	return m
}

// GetState returns a snapshot of the session, refreshing its TTL, or nil
// when the session is absent or expired. Mutations go through AppendTurn
// and the Update methods, never through the returned copy.
func (m *Manager) GetState(sessionID string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.liveState(sessionID)
	if state == nil {
		return nil
	}
	return state.snapshot()
}

// AppendTurn adds one message to the session history, creating the session
// on first use and capping history at the last ten turns. It returns a
// snapshot of the updated state.
func (m *Manager) AppendTurn(sessionID, userID, role, content string) *State {
	m.mu.Lock()
	state := m.liveState(sessionID)
	if state == nil {
		now := time.Now()
		state = &State{
			SessionID: sessionID,
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	state.History = append(state.History, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(state.History) > maxHistoryTurns {
		state.History = state.History[len(state.History)-maxHistoryTurns:]
	}

	evicted := m.save(state)
	snap := state.snapshot()
	m.mu.Unlock()

	m.evict(evicted)
	return snap
}

// UpdateLastPlaces records the places just shown to the user (top ten) and
// the intent that produced them.
func (m *Manager) UpdateLastPlaces(sessionID string, places []PlaceRef, intent string) {
	if len(places) > maxLastPlaces {
		places = places[:maxLastPlaces]
	}

	m.mu.Lock()
	state := m.liveState(sessionID)
	if state == nil {
		m.mu.Unlock()
		return
	}
	state.LastPlaces = append([]PlaceRef(nil), places...)
	state.LastIntent = intent
	evicted := m.save(state)
	m.mu.Unlock()

	m.evict(evicted)
}

// UpdateContext merges location/budget facts into the session.
func (m *Manager) UpdateContext(sessionID string, ctx Context) {
	m.mu.Lock()
	state := m.liveState(sessionID)
	if state == nil {
		m.mu.Unlock()
		return
	}
	if ctx.Location != nil {
		loc := *ctx.Location
		state.Context.Location = &loc
	}
	if ctx.Budget != "" {
		state.Context.Budget = ctx.Budget
	}
	evicted := m.save(state)
	m.mu.Unlock()

	m.evict(evicted)
}

// Clear removes a session.
func (m *Manager) Clear(sessionID string) {
	m.sessions.Delete(sessionID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// liveState fetches the stored state and re-arms its TTL. The caller
// holds mu.
func (m *Manager) liveState(sessionID string) *State {
	if sessionID == "" {
		return nil
	}
	v, found := m.sessions.Get(sessionID)
	if !found {
		return nil
	}
	state := v.(*State)

	// Sliding expiry: re-arm the TTL on every access.
	m.sessions.Set(sessionID, state, m.ttl)
	m.touch(sessionID)
	return state
}

// save writes the state back and picks an LRU victim when the store is
// full and this is a new session id. The caller holds mu and deletes the
// returned victim after releasing it; the eviction callback re-takes mu.
func (m *Manager) save(state *State) string {
	state.UpdatedAt = time.Now()

	victim := ""
	if _, exists := m.index[state.SessionID]; !exists && m.order.Len() >= m.capacity {
		if oldest := m.order.Back(); oldest != nil {
			victim = oldest.Value.(string)
			m.order.Remove(oldest)
			delete(m.index, victim)
		}
	}
	m.touch(state.SessionID)
	m.sessions.Set(state.SessionID, state, m.ttl)
	return victim
}

func (m *Manager) evict(key string) {
	if key == "" {
		return
	}
	m.sessions.Delete(key)
	if m.logger != nil {
		m.logger.Debug("evicted oldest session", zap.String("sessionId", key))
	}
}

// touch moves the session to the front of the LRU order. The caller
// holds mu.
func (m *Manager) touch(sessionID string) {
	if el, ok := m.index[sessionID]; ok {
		m.order.MoveToFront(el)
	} else {
		m.index[sessionID] = m.order.PushFront(sessionID)
	}
}

func (m *Manager) dropIndexEntry(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.index[key]; ok {
		m.order.Remove(el)
		delete(m.index, key)
	}
}
