package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the registry of live sessions, the only state shared across
// requests. Capacity eviction and hard TTL come from the expirable LRU;
// idle expiry is checked on access so semantics stay pull-based. Disjoint
// sessions proceed independently: the registry lock never covers a
// session's own node cache operations.
type Store struct {
	sessions *expirable.LRU[string, *Session]
	ttl      time.Duration
	nodeCap  int
}

// NewStore creates a session store. maxSessions bounds how many
// conversations are tracked at once; ttl is the idle expiry; nodeCap
// bounds each session's node cache.
func NewStore(maxSessions int, ttl time.Duration, nodeCap int) *Store {
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if nodeCap <= 0 {
		nodeCap = 200
	}
	return &Store{
		// Hard TTL at 2x idle so a session always hits the idle check first.
		sessions: expirable.NewLRU[string, *Session](maxSessions, nil, 2*ttl),
		ttl:      ttl,
		nodeCap:  nodeCap,
	}
}

// Get returns the live session for id, or transparently creates a fresh
// one when the id is empty, unknown, or idle-expired. Expiry is never a
// hard error.
func (s *Store) Get(id string) *Session {
	if id != "" {
		if sess, ok := s.sessions.Get(id); ok && !sess.expired(s.ttl) {
			return sess
		}
	}

	if id == "" {
		id = uuid.NewString()
	}
	sess := newSession(id, s.nodeCap)
	s.sessions.Add(id, sess)
	return sess
}

// Len returns the number of tracked sessions, including any not yet
// swept by the expirable LRU.
func (s *Store) Len() int {
	return s.sessions.Len()
}
