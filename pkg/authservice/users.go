package authservice

import (
	"context"

	"github.com/wisbric/orbit/pkg/apierror"
)

// GetUser looks up a user by ID via the provider.
func (s *Service) GetUser(ctx context.Context, userID string) apierror.Result[User] {
	user, err := s.provider.GetUserByID(ctx, userID)
	if err != nil {
		return apierror.Fail[User](mapProviderError(err))
	}
	return apierror.Ok(user)
}

// VerifyToken asks the provider to validate an externally-held token (e.g.
// one issued to a node agent) and returns the associated user.
func (s *Service) VerifyToken(ctx context.Context, token string) apierror.Result[User] {
	user, err := s.provider.VerifyToken(ctx, token)
	if err != nil {
		return apierror.Fail[User](mapProviderError(err))
	}
	return apierror.Ok(user)
}

// UpdateUser applies a profile update via the provider. If the updated user
// is the one holding the current session, the installed session's User is
// refreshed in place so role changes take effect immediately.
func (s *Service) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) apierror.Result[User] {
	user, err := s.provider.UpdateUser(ctx, userID, in)
	if err != nil {
		return apierror.Fail[User](mapProviderError(err))
	}

	s.mu.Lock()
	if s.current != nil && s.current.User.ID == userID {
		s.current.User = user
	}
	s.mu.Unlock()

	return apierror.Ok(user)
}

// DeleteUser removes a user via the provider. If the deleted user is the
// one holding the current session, the session is cleared and the
// auto-refresh timer stopped.
func (s *Service) DeleteUser(ctx context.Context, userID string) apierror.Result[struct{}] {
	if err := s.provider.DeleteUser(ctx, userID); err != nil {
		return apierror.Fail[struct{}](mapProviderError(err))
	}

	sess, ok := s.CurrentSession()
	if ok && sess.User.ID == userID {
		s.stopAutoRefresh()
		s.clearSession()
	}

	return apierror.Ok(struct{}{})
}
