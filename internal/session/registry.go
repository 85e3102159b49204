package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry tracks running sessions by id.
type Registry struct {
	log      logrus.FieldLogger
	limit    int
	defaults []Option

	mu       sync.RWMutex
	lastID   int64
	sessions map[int64]*Session
}

// NewRegistry returns an empty registry holding at most limit running
// sessions, or any number when limit is not positive. defaults are applied to
// every session before the options given to Create.
func NewRegistry(log logrus.FieldLogger, limit int, defaults ...Option) *Registry {
	return &Registry{
		log:      log,
		limit:    limit,
		defaults: defaults,
		sessions: make(map[int64]*Session),
	}
}

// Create starts a new session on its own goroutine. The session is dropped
// from the registry once it stops.
func (r *Registry) Create(ctx context.Context, opts ...Option) (*Session, error) {
	r.mu.Lock()
	if r.limit > 0 && len(r.sessions) >= r.limit {
		r.mu.Unlock()
		return nil, ErrTooManySessions
	}
	r.lastID++
	id := r.lastID
	all := append([]Option{WithLogger(r.log)}, r.defaults...)
	s := New(append(all, opts...)...)
	s.ID = id
	r.sessions[id] = s
	r.mu.Unlock()

	go func() {
		if err := s.Run(ctx); err != nil {
			r.log.WithField("session", id).WithError(err).Error("session stopped")
		}
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		r.log.WithField("session", id).Debug("session removed")
	}()

	r.log.WithField("session", id).Debug("session created")
	return s, nil
}

func (r *Registry) Get(id int64) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove stops the session and forgets it right away.
func (r *Registry) Remove(id int64) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops every session and waits for them to finish.
func (r *Registry) Close() {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
	for _, s := range sessions {
		<-s.Done()
	}
}
