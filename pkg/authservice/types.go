// Package authservice implements AuthService: session lifecycle and
// role-gated authorization, delegating credential verification to an
// injected AuthProvider, per spec.md §4.6.
package authservice

import (
	"context"
	"fmt"
	"time"
)

// Role is a member of the closed role set spec.md §3 defines for users.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOperator  Role = "operator"
	RoleDeveloper Role = "developer"
	RoleViewer    Role = "viewer"
	RoleNode      Role = "node"
)

// User is the authenticated principal, as returned by the AuthProvider.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Roles       []Role
}

// Session is the single current session AuthService maintains: the
// authenticated user plus the self-issued access token and the
// provider-managed refresh token.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// ProviderError is the structured failure an AuthProvider returns.
// AuthService maps Code against a fixed set; unrecognized codes pass
// through unchanged (spec.md §4.6).
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UpdateUserInput carries the mutable fields of a user profile update.
type UpdateUserInput struct {
	DisplayName *string
	Roles       []Role
}

// AuthProvider is the credential-verification backend AuthService delegates
// to. Implementations own user storage, password hashing, and refresh-token
// bookkeeping; AuthService owns session issuance and role gating on top.
// RegisterUser, LoginUser, and RefreshSession each return a provider-issued
// refresh token alongside the user; AuthService stores it opaquely and
// returns it unchanged on the next RefreshSession call.
type AuthProvider interface {
	RegisterUser(ctx context.Context, email, password, displayName string) (User, string, error)
	LoginUser(ctx context.Context, email, password string) (User, string, error)
	LogoutUser(ctx context.Context, userID string) error
	RefreshSession(ctx context.Context, refreshToken string) (User, string, error)
	GetUserByID(ctx context.Context, userID string) (User, error)
	VerifyToken(ctx context.Context, token string) (User, error)
	UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (User, error)
	DeleteUser(ctx context.Context, userID string) error
}
