package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/notify"
)

// Options configures the sessions created by a Store
type Options struct {
	IdleTimeout      time.Duration
	OperationTimeout time.Duration
	FeedSize         int
	Sinks            []notify.Notifier
	Hub              notify.ChannelPublisher
}

// Store keeps live sessions in memory
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	backend  Backend
	opts     Options
	logger   *zap.Logger
}

// NewStore creates an empty session store
func NewStore(backend Backend, opts Options, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		backend:  backend,
		opts:     opts,
		logger:   logger,
	}
}

// Create starts a new session with a fresh ID
func (s *Store) Create() *Session {
	return s.GetOrCreate(uuid.New().String())
}

// Get returns a live session
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.Touch()
	}
	return sess, ok
}

// GetOrCreate returns the session for id, creating it when it has expired or never existed
func (s *Store) GetOrCreate(id string) *Session {
	if sess, ok := s.Get(id); ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Touch()
		return sess
	}
	sess := newSession(id, s.opts, s.backend, s.logger)
	s.sessions[id] = sess
	s.logger.Debug("Session created", zap.String("session_id", id))
	return sess
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict removes sessions idle since before cutoff and abandons their operations
func (s *Store) Evict(cutoff time.Time) int {
	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Abandon()
	}
	if len(expired) > 0 {
		s.logger.Info("Evicted idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// RunJanitor evicts idle sessions every interval until ctx is done
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.opts.IdleTimeout <= 0 {
		return
	}
	if interval <= 0 {
		interval = s.opts.IdleTimeout / 2
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Evict(time.Now().Add(-s.opts.IdleTimeout))
		case <-ctx.Done():
			return
		}
	}
}

// Close abandons the operations of every session
func (s *Store) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Abandon()
	}
}
