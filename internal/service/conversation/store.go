package conversation

import (
	"sync"
	"time"

	"github.com/sitewright/backend/internal/model/chat"
)

// Store holds per-session conversation windows in memory. Sessions are
// created lazily on first use and live until cleared. Each session has its
// own lock, so requests for distinct sessions never contend while the
// read-modify-append sequence for one session stays serialized.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	turns []chat.Turn
}

// NewStore bootstraps an empty in-memory conversation store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

func (s *Store) get(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{turns: make([]chat.Turn, 0, chat.WindowSize)}
		s.sessions[sessionID] = sess
	}
	return sess
}

// Turns returns a copy of the session's current window in append order.
func (s *Store) Turns(sessionID string) []chat.Turn {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	copied := make([]chat.Turn, len(sess.turns))
	copy(copied, sess.turns)
	return copied
}

// Len reports the current window length for the session.
func (s *Store) Len(sessionID string) int {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.turns)
}

// Append inserts a turn and trims the window to the most recent
// chat.WindowSize entries, evicting the oldest first. It returns the
// resulting window length.
func (s *Store) Append(sessionID string, turn chat.Turn) int {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.appendLocked(turn)
}

func (sess *session) appendLocked(turn chat.Turn) int {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	sess.turns = append(sess.turns, turn)
	if excess := len(sess.turns) - chat.WindowSize; excess > 0 {
		sess.turns = append(sess.turns[:0], sess.turns[excess:]...)
	}
	return len(sess.turns)
}

// Do runs fn while holding the session's lock, with a snapshot of the
// current window. When fn returns a non-nil turn it is appended before the
// lock is released, so a generate call that reads history, awaits a
// backend, and stores its result cannot interleave with another request
// for the same session. The second return value is the window length after
// any append.
func (s *Store) Do(sessionID string, fn func(turns []chat.Turn) (*chat.Turn, error)) (int, error) {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	snapshot := make([]chat.Turn, len(sess.turns))
	copy(snapshot, sess.turns)

	turn, err := fn(snapshot)
	if err != nil {
		return len(sess.turns), err
	}
	if turn != nil {
		return sess.appendLocked(*turn), nil
	}
	return len(sess.turns), nil
}

// Clear removes the session entirely. A subsequent access starts a fresh,
// empty window. It reports whether a session existed.
func (s *Store) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}
