package authservice

import (
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
)

// RequireAuthentication returns the current session, or UNAUTHORIZED if
// none is installed, or SESSION_EXPIRED if the installed session's
// ExpiresAt has passed.
func (s *Service) RequireAuthentication() apierror.Result[Session] {
	sess, ok := s.CurrentSession()
	if !ok {
		return apierror.Fail[Session](apierror.New(apierror.CodeUnauthorized, "no session is installed"))
	}
	if time.Now().After(sess.ExpiresAt) {
		return apierror.Fail[Session](apierror.New(apierror.CodeSessionExpired, "session has expired"))
	}
	return apierror.Ok(sess)
}

// RequireRole requires an authenticated, unexpired session whose user holds
// role, returning FORBIDDEN if authenticated but lacking it.
func (s *Service) RequireRole(role Role) apierror.Result[Session] {
	return s.requireRoles(func(roles []Role) bool { return hasRole(roles, role) })
}

// RequireAnyRole requires an authenticated, unexpired session whose user
// holds at least one of roles, returning FORBIDDEN if authenticated but
// lacking all of them.
func (s *Service) RequireAnyRole(roles ...Role) apierror.Result[Session] {
	return s.requireRoles(func(have []Role) bool { return hasAnyRole(have, roles...) })
}

func (s *Service) requireRoles(satisfied func([]Role) bool) apierror.Result[Session] {
	authResult := s.RequireAuthentication()
	if !authResult.Success {
		return authResult
	}
	sess := authResult.Data
	if !satisfied(sess.User.Roles) {
		return apierror.Fail[Session](apierror.New(apierror.CodeForbidden, "user lacks the required role"))
	}
	return apierror.Ok(sess)
}
