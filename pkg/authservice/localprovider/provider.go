// Package localprovider is a reference, in-memory AuthProvider
// implementation for tests and demos. It is illustrative only: the core
// depends solely on the authservice.AuthProvider interface.
package localprovider

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wisbric/orbit/pkg/authservice"
)

type record struct {
	user         authservice.User
	passwordHash []byte
	refreshToken string
}

// Provider is a bcrypt-backed, in-memory AuthProvider. Safe for concurrent
// use.
type Provider struct {
	mu        sync.Mutex
	byID      map[string]*record
	idByEmail map[string]string
}

// New returns an empty Provider.
func New() *Provider {
	return &Provider{
		byID:      make(map[string]*record),
		idByEmail: make(map[string]string),
	}
}

func providerErr(code, message string) error {
	return &authservice.ProviderError{Code: code, Message: message}
}

// RegisterUser creates a new user with the default viewer role, rejecting a
// duplicate email.
func (p *Provider) RegisterUser(ctx context.Context, email, password, displayName string) (authservice.User, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.idByEmail[email]; exists {
		return authservice.User{}, "", providerErr("USER_ALREADY_EXISTS", "a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return authservice.User{}, "", providerErr("INVALID_CREDENTIALS", "hashing password: "+err.Error())
	}

	user := authservice.User{
		ID:          uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		Roles:       []authservice.Role{authservice.RoleViewer},
	}
	refreshToken := uuid.NewString()
	p.byID[user.ID] = &record{user: user, passwordHash: hash, refreshToken: refreshToken}
	p.idByEmail[email] = user.ID

	return user, refreshToken, nil
}

// LoginUser verifies credentials against the stored bcrypt hash.
func (p *Provider) LoginUser(ctx context.Context, email, password string) (authservice.User, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.lookupByEmailLocked(email)
	if !ok {
		return authservice.User{}, "", providerErr("INVALID_CREDENTIALS", "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return authservice.User{}, "", providerErr("INVALID_CREDENTIALS", "invalid email or password")
	}

	rec.refreshToken = uuid.NewString()
	return rec.user, rec.refreshToken, nil
}

// LogoutUser is a no-op: this provider keeps no server-side session state
// beyond the refresh token, which RefreshSession rotates on use.
func (p *Provider) LogoutUser(ctx context.Context, userID string) error {
	return nil
}

// RefreshSession exchanges a previously issued refresh token for the
// current user, rotating the token.
func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (authservice.User, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, rec := range p.byID {
		if rec.refreshToken == refreshToken {
			rec.refreshToken = uuid.NewString()
			return rec.user, rec.refreshToken, nil
		}
	}
	return authservice.User{}, "", providerErr("SESSION_EXPIRED", "refresh token is invalid or expired")
}

// GetUserByID looks up a user by ID.
func (p *Provider) GetUserByID(ctx context.Context, userID string) (authservice.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[userID]
	if !ok {
		return authservice.User{}, providerErr("USER_NOT_FOUND", "no user with this id")
	}
	return rec.user, nil
}

// VerifyToken treats token as a refresh token and returns its user without
// rotating it. A reference implementation only; real providers would
// verify an access token instead.
func (p *Provider) VerifyToken(ctx context.Context, token string) (authservice.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, rec := range p.byID {
		if rec.refreshToken == token {
			return rec.user, nil
		}
	}
	return authservice.User{}, providerErr("SESSION_EXPIRED", "token is invalid or expired")
}

// UpdateUser applies a partial profile update.
func (p *Provider) UpdateUser(ctx context.Context, userID string, in authservice.UpdateUserInput) (authservice.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[userID]
	if !ok {
		return authservice.User{}, providerErr("USER_NOT_FOUND", "no user with this id")
	}
	if in.DisplayName != nil {
		rec.user.DisplayName = *in.DisplayName
	}
	if in.Roles != nil {
		rec.user.Roles = in.Roles
	}
	return rec.user, nil
}

// DeleteUser removes a user.
func (p *Provider) DeleteUser(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[userID]
	if !ok {
		return providerErr("USER_NOT_FOUND", "no user with this id")
	}
	delete(p.byID, userID)
	delete(p.idByEmail, rec.user.Email)
	return nil
}

func (p *Provider) lookupByEmailLocked(email string) (*record, bool) {
	id, ok := p.idByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	rec, ok := p.byID[id]
	return rec, ok
}
