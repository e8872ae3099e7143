// Package session keeps the editor sessions served over HTTP. Each session
// owns one tree; the store serialises access to it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njchilds90/mathtree"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrFull     = errors.New("session limit reached")
)

// Session is one editor and the lock guarding it.
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	touched time.Time
	keys    int
	editor  *mathtree.Editor
}

// Apply performs keys in order and returns the resulting state with the
// number of keys applied. Keys before a failing key stay applied.
func (s *Session) Apply(keys []mathtree.Key) (mathtree.Snapshot, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range keys {
		if err := s.editor.Apply(k); err != nil {
			return s.editor.State(), i, err
		}
		s.keys++
	}
	return s.editor.State(), len(keys), nil
}

func (s *Session) State() mathtree.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.State()
}

// Tree returns a detached copy of the session's tree.
func (s *Session) Tree() *mathtree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Root().Clone(true)
}

// Keys reports how many keys the session has applied.
func (s *Session) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys
}

// Store holds sessions by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	ttl      time.Duration
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// NewStore returns a store holding at most max sessions, each expiring
// after ttl without use. A ttl of zero never expires.
func NewStore(max int, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: map[string]*Session{},
		max:      max,
		ttl:      ttl,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a session on an empty tree, or on tree when given.
func (s *Store) Create(tree *mathtree.Node) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.max {
		return nil, ErrFull
	}
	id := uuid.NewString()
	opts := []mathtree.EditorOption{mathtree.WithLogger(s.log.With(zap.String("session", id)))}
	if tree != nil {
		opts = append(opts, mathtree.WithTree(tree))
	}
	now := s.now()
	sess := &Session{
		ID:      id,
		Created: now,
		touched: now,
		editor:  mathtree.NewEditor(opts...),
	}
	s.sessions[id] = sess
	s.log.Info("session created", zap.String("session", id), zap.Int("sessions", len(s.sessions)))
	return sess, nil
}

// Get returns the session and marks it used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.mu.Lock()
	sess.touched = s.now()
	sess.mu.Unlock()
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Info("session deleted", zap.String("session", id))
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and reports how many it removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("expired sessions swept", zap.Int("removed", removed), zap.Int("sessions", len(s.sessions)))
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
