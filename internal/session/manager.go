package session

import (
	"log"
	"sync"
	"time"

	"github.com/voltsite/voltsitego/internal/floorplan"
)

// Manager owns the open editing sessions, one per floor-plan document. Idle
// sessions are flushed and evicted by a janitor so an abandoned browser tab
// does not pin a document in memory forever.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	persist PersistFunc
	window  time.Duration
	ttl     time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager. window is the autosave debounce
// window, ttl the idle lifetime before eviction.
func NewManager(persist PersistFunc, window, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		persist:  persist,
		window:   window,
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

// Checkout returns the open session for a plan, creating one seeded with the
// given state when the plan is not open yet. The seed is ignored for an
// already-open plan; the in-memory session is authoritative.
func (m *Manager) Checkout(planID string, initial floorplan.FloorPlanState) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[planID]; ok {
		return s
	}
	s := newSession(planID, initial, m.window, m.persist)
	m.sessions[planID] = s
	log.Printf("📐 Editing session opened for plan %s", planID)
	return s
}

// Get returns an open session without creating one.
func (m *Manager) Get(planID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[planID]
	return s, ok
}

// Release flushes and removes a session.
func (m *Manager) Release(planID string) {
	m.mu.Lock()
	s, ok := m.sessions[planID]
	if ok {
		delete(m.sessions, planID)
	}
	m.mu.Unlock()

	if ok {
		s.close()
		log.Printf("📕 Editing session closed for plan %s", planID)
	}
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartJanitor begins periodic eviction of idle sessions.
func (m *Manager) StartJanitor() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.evictIdle()
			case <-m.stop:
				return
			}
		}
	}()
}

// evictIdle closes sessions idle for longer than the TTL.
func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var idle []*Session
	for planID, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, planID)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.close()
		log.Printf("🧹 Evicted idle editing session for plan %s", s.PlanID)
	}
}

// Shutdown stops the janitor and flushes every open session. Called on
// server shutdown so no pending autosave is lost.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
