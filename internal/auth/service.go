// Package auth provides session management for the admin panel. Sessions
// are session-lifetime only: an in-memory token table that empties on
// restart, matching the rest of the dashboard's ephemeral state.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Role is the coarse authorization flag attached to a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// ErrInvalidCredentials is returned for a wrong or missing password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrLoginDisabled is returned when no admin password is configured.
var ErrLoginDisabled = errors.New("admin login is disabled")

// Session is one authenticated session.
type Session struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service manages sessions in memory.
type Service struct {
	mu            sync.RWMutex
	sessions      map[string]Session
	adminPassword string
	log           zerolog.Logger
}

// NewService creates a new auth service. An empty adminPassword disables
// admin login entirely.
func NewService(adminPassword string, log zerolog.Logger) *Service {
	return &Service{
		sessions:      make(map[string]Session),
		adminPassword: adminPassword,
		log:           log.With().Str("service", "auth").Logger(),
	}
}

// Login validates the admin password and creates an admin session.
func (s *Service) Login(password string) (*Session, error) {
	if s.adminPassword == "" {
		return nil, ErrLoginDisabled
	}
	if password != s.adminPassword {
		s.log.Warn().Msg("Failed admin login attempt")
		return nil, ErrInvalidCredentials
	}

	session := Session{
		Token:     uuid.New().String(),
		Role:      RoleAdmin,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.log.Info().Msg("Admin logged in")
	return &session, nil
}

// Validate looks up a session by token.
func (s *Service) Validate(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return &session, true
}

// Logout destroys a session; unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
