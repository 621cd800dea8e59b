package authservice

import (
	"context"

	"github.com/wisbric/orbit/pkg/apierror"
)

// RegisterInput carries raw registration fields before normalization.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register validates email and password locally, normalizes the email, then
// delegates to the provider. On success it installs the new session and
// arms the auto-refresh timer.
func (s *Service) Register(ctx context.Context, in RegisterInput) apierror.Result[Session] {
	if !validEmail(in.Email) {
		return apierror.Fail[Session](apierror.New(apierror.CodeValidationError, "email is not a valid address"))
	}
	if !validPassword(in.Password) {
		return apierror.Fail[Session](apierror.New(apierror.CodeValidationError, "password must be at least 8 characters with an uppercase letter, a lowercase letter, and a digit"))
	}

	email := normalizeEmail(in.Email)
	user, refreshToken, err := s.provider.RegisterUser(ctx, email, in.Password, in.DisplayName)
	if err != nil {
		return apierror.Fail[Session](mapProviderError(err))
	}

	return s.issueAndInstall(user, refreshToken)
}

func (s *Service) issueAndInstall(user User, refreshToken string) apierror.Result[Session] {
	token, expiresAt, err := s.issuer.issue(user)
	if err != nil {
		return apierror.Fail[Session](apierror.New(apierror.CodeInvalidCredentials, "issuing session token: "+err.Error()))
	}

	sess := Session{
		User:         user,
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	s.installSession(sess)
	s.armAutoRefresh()
	return apierror.Ok(sess)
}
