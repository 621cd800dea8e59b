package authservice

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// armAutoRefresh starts the auto-refresh timer if configured and not
// already running. Idempotent, mirroring the node liveness monitor.
func (s *Service) armAutoRefresh() {
	if !s.cfg.EnableAutoRefresh {
		return
	}
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.started {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.started = true

	go func() {
		ticker := time.NewTicker(s.cfg.AutoRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.maybeRefresh(ctx)
			}
		}
	}()
}

// Dispose stops the auto-refresh timer. Idempotent; an in-flight refresh
// attempt does not install a session after this returns.
func (s *Service) Dispose() {
	s.stopAutoRefresh()
}

// stopAutoRefresh stops the auto-refresh timer. Idempotent; an in-flight
// refresh attempt does not install a session after this returns.
func (s *Service) stopAutoRefresh() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if !s.started {
		return
	}
	s.cancel()
	s.started = false
}

// maybeRefresh triggers refreshSession when the current session's
// remaining lifetime is below the configured threshold. A failed refresh
// attempt is swallowed and retried on the next tick rather than torn down.
func (s *Service) maybeRefresh(ctx context.Context) {
	sess, ok := s.CurrentSession()
	if !ok {
		return
	}
	if time.Until(sess.ExpiresAt) >= s.cfg.SessionRefreshThreshold {
		return
	}

	result, err := backoff.Retry(ctx, func() (refreshResult, error) {
		u, rt, err := s.provider.RefreshSession(ctx, sess.RefreshToken)
		if err != nil {
			return refreshResult{}, err
		}
		return refreshResult{user: u, refreshToken: rt}, nil
	}, backoff.WithMaxTries(1))
	if err != nil {
		s.logger.Warn("session auto-refresh failed, retrying next tick", "user_id", sess.User.ID, "error", err)
		return
	}

	token, expiresAt, err := s.issuer.issue(result.user)
	if err != nil {
		s.logger.Warn("reissuing session token failed", "user_id", sess.User.ID, "error", err)
		return
	}

	s.installSession(Session{
		User:         result.user,
		AccessToken:  token,
		RefreshToken: result.refreshToken,
		ExpiresAt:    expiresAt,
	})
}

type refreshResult struct {
	user         User
	refreshToken string
}
