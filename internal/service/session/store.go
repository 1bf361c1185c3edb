package session

import (
	"sync"
	"time"

	"github.com/kargotek/destek/backend/internal/model/support"
)

// EvictionPolicy decides whether an idle session may be dropped. The
// original system never evicts, so sessions accumulate for the process
// lifetime; this hook makes that an explicit, replaceable choice instead
// of an implicit global.
type EvictionPolicy interface {
	ShouldEvict(s *support.Session, now time.Time) bool
}

type keepForever struct{}

func (keepForever) ShouldEvict(*support.Session, time.Time) bool { return false }

// KeepForever is the default policy: no TTL, no teardown.
func KeepForever() EvictionPolicy { return keepForever{} }

// IdleTimeout evicts sessions not touched for the given duration.
type IdleTimeout struct {
	After time.Duration
}

func (p IdleTimeout) ShouldEvict(s *support.Session, now time.Time) bool {
	return now.Sub(s.LastSeen) > p.After
}

// Store is the concurrency-safe map from session id to session state.
// Mutations go through Update so that concurrent turns for the same id
// serialize their commits; reads hand out clones so callers never touch
// shared state outside the lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*support.Session
	eviction EvictionPolicy
}

// Option configures a Store.
type Option func(*Store)

// WithEvictionPolicy overrides the default keep-forever policy.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(s *Store) {
		if p != nil {
			s.eviction = p
		}
	}
}

// NewStore bootstraps the in-memory session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*support.Session),
		eviction: keepForever{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns a snapshot of the session, creating it with default
// fields on first contact.
func (s *Store) GetOrCreate(id string) support.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(time.Now().UTC())
	return s.getOrCreateLocked(id).Clone()
}

// Update applies the mutation atomically and returns the resulting state.
// Either the whole mutation commits or none of it does; callers keep all
// blocking work outside this call.
func (s *Store) Update(id string, mutate func(*support.Session)) support.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	mutate(sess)
	sess.LastSeen = time.Now().UTC()
	return sess.Clone()
}

// Len reports how many sessions are currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) getOrCreateLocked(id string) *support.Session {
	sess, ok := s.sessions[id]
	if !ok {
		now := time.Now().UTC()
		sess = &support.Session{ID: id, CreatedAt: now, LastSeen: now}
		s.sessions[id] = sess
	}
	return sess
}

func (s *Store) sweepLocked(now time.Time) {
	if _, keep := s.eviction.(keepForever); keep {
		return
	}
	for id, sess := range s.sessions {
		if s.eviction.ShouldEvict(sess, now) {
			delete(s.sessions, id)
		}
	}
}
