package authservice

import (
	"context"

	"github.com/wisbric/orbit/pkg/apierror"
)

// LoginInput carries raw login fields before normalization.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates input locally, normalizes the email, then delegates to
// the provider. On success it installs the new session and arms the
// auto-refresh timer.
func (s *Service) Login(ctx context.Context, in LoginInput) apierror.Result[Session] {
	if !validEmail(in.Email) {
		return apierror.Fail[Session](apierror.New(apierror.CodeValidationError, "email is not a valid address"))
	}
	if in.Password == "" {
		return apierror.Fail[Session](apierror.New(apierror.CodeValidationError, "password is required"))
	}

	email := normalizeEmail(in.Email)
	user, refreshToken, err := s.provider.LoginUser(ctx, email, in.Password)
	if err != nil {
		return apierror.Fail[Session](mapProviderError(err))
	}

	return s.issueAndInstall(user, refreshToken)
}
