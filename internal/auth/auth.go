// Package auth keeps the signed-in user and persists it on-device.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/store"
)

// userKey is the key-value slot holding the signed-in user.
const userKey = "user"

// ErrNotSignedIn is returned by operations that need a user.
var ErrNotSignedIn = errors.New("not signed in")

// Backend is the subset of the API client the service uses.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.User, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.User, error)
	GetUser(ctx context.Context, id string) (*api.User, error)
}

// Service owns the current user. It is safe for concurrent use.
type Service struct {
	backend Backend
	kv      store.KVRepo
	logger  *slog.Logger

	mu   sync.RWMutex
	user *api.User
}

// New creates a service. kv may be nil to keep the user in memory only.
func New(backend Backend, kv store.KVRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{backend: backend, kv: kv, logger: logger}
}

// Load restores a previously signed-in user. A missing entry is not an error.
func (s *Service) Load(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	var u api.User
	err := s.kv.Get(ctx, userKey, &u)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	s.set(&u)
	return nil
}

// SignIn authenticates and persists the user.
func (s *Service) SignIn(ctx context.Context, email, password string) (*api.User, error) {
	u, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("signed in", "user", u.ID)
	return u, nil
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	u, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("signed up", "user", u.ID)
	return u, nil
}

// SignOut forgets the user.
func (s *Service) SignOut(ctx context.Context) error {
	s.set(nil)
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("forget user: %w", err)
	}
	return nil
}

// Refresh re-reads the user from the backend, e.g. after a score change.
func (s *Service) Refresh(ctx context.Context) error {
	id, ok := s.CurrentUserID()
	if !ok {
		return ErrNotSignedIn
	}
	u, err := s.backend.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("refresh user: %w", err)
	}
	if u.ID == "" {
		u.ID = id
	}
	return s.save(ctx, u)
}

// Update replaces the cached user after a profile edit.
func (s *Service) Update(ctx context.Context, u api.User) error {
	if _, ok := s.CurrentUserID(); !ok {
		return ErrNotSignedIn
	}
	return s.save(ctx, &u)
}

// Current returns a copy of the signed-in user.
func (s *Service) Current() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// CurrentUserID returns the signed-in user's ID.
func (s *Service) CurrentUserID() (string, bool) {
	u, ok := s.Current()
	if !ok || u.ID == "" {
		return "", false
	}
	return u.ID, true
}

func (s *Service) save(ctx context.Context, u *api.User) error {
	s.set(u)
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Put(ctx, userKey, u); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

func (s *Service) set(u *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}
