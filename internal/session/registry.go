package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/quizziebot/quizzie/internal/quiz"
)

// Registry owns every live session. Views hold only the session ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	newID    func() string
}

// NewRegistry creates a registry whose sessions use opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
		newID:    func() string { return uuid.New().String() },
	}
}

// Start creates and registers a fresh session over q.
func (r *Registry) Start(q quiz.Quiz) (*Session, error) {
	s, err := New(r.newID(), q, r.opts)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s, nil
}

// Get returns the session for id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Abandon cancels any pending transition and forgets the session.
func (r *Registry) Abandon(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Cancel()
	}
}

// Restart abandons id and starts a new session over the same quiz content.
func (r *Registry) Restart(id string) (*Session, error) {
	old, ok := r.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	r.Abandon(id)
	return r.Start(old.Quiz())
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
