package authservice

import (
	"context"

	"github.com/wisbric/orbit/pkg/apierror"
)

// Logout ends the current session: delegates to the provider, stops the
// auto-refresh timer, and clears the installed session regardless of
// whether a session was present.
func (s *Service) Logout(ctx context.Context) apierror.Result[struct{}] {
	sess, ok := s.CurrentSession()
	s.stopAutoRefresh()
	s.clearSession()

	if !ok {
		return apierror.Ok(struct{}{})
	}
	if err := s.provider.LogoutUser(ctx, sess.User.ID); err != nil {
		return apierror.Fail[struct{}](mapProviderError(err))
	}
	return apierror.Ok(struct{}{})
}
