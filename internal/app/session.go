package app

import (
	"context"
	"fmt"
	"sync"
)

type SessionState string

const (
	StateLoading       SessionState = "loading"
	StateAnonymous     SessionState = "anonymous"
	StateAuthenticated SessionState = "authenticated"
)

// SessionManager owns the bearer token and the login/register/logout
// transitions. It is handed to consumers explicitly; nothing reads it through
// globals. Valid transitions: loading→anonymous, loading→authenticated,
// anonymous→authenticated, authenticated→anonymous. The token and user are
// either both present or both absent.
type SessionManager struct {
	client *Client
	store  TokenStore
	logger *Logger

	mu    sync.RWMutex
	state SessionState
	user  *User
}

func NewSessionManager(client *Client, store TokenStore, logger *Logger) *SessionManager {
	return &SessionManager{
		client: client,
		store:  store,
		logger: logger,
		state:  StateLoading,
	}
}

// Initialize runs once at startup. It reads the persisted token and verifies
// it against the backend. Any verification failure clears the token and lands
// in anonymous; verification is never retried.
func (s *SessionManager) Initialize(ctx context.Context) {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Err("token load failed", err, nil)
		token = ""
	}
	if token == "" {
		s.become(StateAnonymous, nil, "")
		return
	}

	user, err := s.client.WhoAmI(ctx, token)
	if err != nil {
		s.logger.Err("token verification failed", err, nil)
		_ = s.store.Clear()
		s.become(StateAnonymous, nil, "")
		return
	}
	s.become(StateAuthenticated, &user, token)
}

// Login submits credentials, persists the returned token, then re-derives the
// identity via a second whoami call with the new token. On failure the
// session is unchanged and no partial token remains persisted.
func (s *SessionManager) Login(ctx context.Context, email, password string) (User, error) {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return User{}, fmt.Errorf("login: %w", err)
	}
	return s.adopt(ctx, token)
}

// Register creates an account and establishes an active session, with the
// same contract as Login.
func (s *SessionManager) Register(ctx context.Context, email, password string) (User, error) {
	token, err := s.client.Register(ctx, email, password)
	if err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}
	return s.adopt(ctx, token)
}

// adopt persists a freshly issued token and derives the user behind it. The
// identity always comes from the server; nothing is assumed about the login
// payload beyond the token itself.
func (s *SessionManager) adopt(ctx context.Context, token string) (User, error) {
	if err := s.store.Save(token); err != nil {
		return User{}, fmt.Errorf("persist token: %w", err)
	}
	user, err := s.client.WhoAmI(ctx, token)
	if err != nil {
		// Keep token and user in lockstep: a token that cannot be verified
		// is not kept.
		_ = s.store.Clear()
		return User{}, fmt.Errorf("verify new token: %w", err)
	}
	s.become(StateAuthenticated, &user, token)
	s.logger.Info("session established", Fields{"user_id": user.ID})
	return user, nil
}

// Logout is local-only: it clears the persisted token and the in-memory
// identity. No network call; it always succeeds.
func (s *SessionManager) Logout() {
	_ = s.store.Clear()
	s.become(StateAnonymous, nil, "")
}

func (s *SessionManager) become(state SessionState, user *User, token string) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()
	s.client.SetToken(token)
}

func (s *SessionManager) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether startup verification has not yet finished.
func (s *SessionManager) Loading() bool {
	return s.State() == StateLoading
}

// User returns a copy of the current identity, or nil when anonymous.
func (s *SessionManager) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}
