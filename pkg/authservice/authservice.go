package authservice

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config holds the AuthService's configurable keys (spec.md §6).
type Config struct {
	EnableAutoRefresh       bool
	AutoRefreshInterval     time.Duration
	SessionRefreshThreshold time.Duration
	SessionMaxAge           time.Duration
	SigningKey              []byte // empty generates a process-local key
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		EnableAutoRefresh:       true,
		AutoRefreshInterval:     60 * time.Second,
		SessionRefreshThreshold: 15 * time.Minute,
		SessionMaxAge:           time.Hour,
	}
}

// Service is the AuthService. It delegates credential verification to an
// injected AuthProvider and owns session issuance, the single current
// session, and role-gated authorization on top.
type Service struct {
	provider AuthProvider
	issuer   *sessionIssuer
	cfg      Config
	logger   *slog.Logger

	mu      sync.Mutex
	current *Session

	timerMu sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// New creates a Service delegating to provider.
func New(provider AuthProvider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		issuer:   newSessionIssuer(cfg.SigningKey, cfg.SessionMaxAge),
		cfg:      cfg,
		logger:   logger,
	}
}

// CurrentSession returns the currently installed session, if any.
func (s *Service) CurrentSession() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Service) installSession(sess Session) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
}

func (s *Service) clearSession() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// hasRole reports whether roles contains want.
func hasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// hasAnyRole reports whether roles contains any of want.
func hasAnyRole(roles []Role, want ...Role) bool {
	for _, w := range want {
		if hasRole(roles, w) {
			return true
		}
	}
	return false
}

// HasRole reports whether the current session's user holds role.
func (s *Service) HasRole(role Role) bool {
	sess, ok := s.CurrentSession()
	return ok && hasRole(sess.User.Roles, role)
}

// HasAnyRole reports whether the current session's user holds any of roles.
func (s *Service) HasAnyRole(roles ...Role) bool {
	sess, ok := s.CurrentSession()
	return ok && hasAnyRole(sess.User.Roles, roles...)
}

// IsAdmin reports whether the current session's user is an admin.
func (s *Service) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// CanManageResources reports whether the current session's user may create,
// schedule, or mutate cluster resources: admins and operators.
func (s *Service) CanManageResources() bool {
	return s.HasAnyRole(RoleAdmin, RoleOperator)
}

// IsNodeAgent reports whether the current session's user is a node-agent
// identity (used by node heartbeat/registration callers).
func (s *Service) IsNodeAgent() bool {
	return s.HasRole(RoleNode)
}
