package sessioncore

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// NewSession authenticates username/password through the token service and
// returns the issued session unchanged.
//
// Empty or whitespace-only credentials fail with [ErrUnauthorized] without
// reaching the token service; the same signal is used for wrong credentials
// so a caller cannot tell a malformed request from a rejected one. When the
// token service reports [ErrInvalidUsername] or [ErrInvalidPassword], both
// are normalized to [ErrUnauthorized] after the locked-user tracker has been
// fed. Any other token service failure propagates as-is.
func (e *Engine) NewSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer e.observeLatency(MetricNewSessionLatency, start)
	}
	if e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		e.metricInc(MetricSessionFailure)
		e.emitAudit(ctx, auditEventSessionFailure, false, req.Username, "", ErrUnauthorized, func() map[string]string {
			return map[string]string{
				"reason": "empty_credentials",
			}
		})
		return nil, ErrUnauthorized
	}

	if e.config.Lockout.Enabled && e.lockedUsers != nil {
		locked, err := e.lockedUsers.UserFor(ctx, req.Username)
		if err != nil {
			e.metricInc(MetricSessionFailure)
			e.emitAudit(ctx, auditEventSessionFailure, false, req.Username, "", err, nil)
			return nil, err
		}
		if locked != nil && locked.Locked {
			// Same external signal as a wrong password; lock state is not a
			// caller-visible oracle.
			e.metricInc(MetricSessionLockedOut)
			e.emitAudit(ctx, auditEventSessionLockedOut, false, req.Username, "", ErrUnauthorized, func() map[string]string {
				return map[string]string{
					"reason": "account_locked",
				}
			})
			return nil, ErrUnauthorized
		}
	}

	sess, err := e.tokens.TokenForUser(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidUsername) || errors.Is(err, ErrInvalidPassword) {
			e.recordCredentialFailure(ctx, req.Username)
			e.metricInc(MetricSessionFailure)
			e.emitAudit(ctx, auditEventSessionFailure, false, req.Username, "", ErrUnauthorized, func() map[string]string {
				return map[string]string{
					"reason": "invalid_credentials",
				}
			})
			return nil, ErrUnauthorized
		}

		e.metricInc(MetricSessionFailure)
		e.emitAudit(ctx, auditEventSessionFailure, false, req.Username, "", err, nil)
		return nil, err
	}

	if e.config.Lockout.Enabled && e.lockedUsers != nil {
		// Failure count resets on successful authentication; losing the
		// reset only shortens the window, so it must not fail the login.
		if err := e.lockedUsers.Remove(ctx, req.Username); err != nil {
			log.Print("sessioncore: locked user reset failed after login")
		}
	}

	e.metricInc(MetricSessionSuccess)
	e.emitAudit(ctx, auditEventSessionSuccess, true, req.Username, "", nil, nil)

	return sess, nil
}

// recordCredentialFailure feeds the locked-user tracker: look up existing
// lock state, then merge one more failure into it. Tracker errors are
// logged, not surfaced; the caller still gets the uniform unauthorized
// signal.
func (e *Engine) recordCredentialFailure(ctx context.Context, username string) {
	if e.lockedUsers == nil {
		return
	}

	if _, err := e.lockedUsers.UserFor(ctx, username); err != nil {
		log.Print("sessioncore: locked user lookup failed")
		return
	}
	if err := e.lockedUsers.CreateUser(ctx, username); err != nil {
		log.Print("sessioncore: locked user record failed")
		return
	}
	e.metricInc(MetricLockoutRecorded)
}

// Logout revokes a session: it blacklists the access token and revokes the
// refresh token carried in req. The two writes target independent stores;
// both must succeed for the logout to succeed, and there is no compensating
// rollback when one fails.
func (e *Engine) Logout(ctx context.Context, accessToken string, req LogoutRequest) error {
	if e.blacklistedTokens == nil || e.tokens == nil {
		return ErrEngineNotReady
	}

	if err := e.blacklistedTokens.Put(ctx, e.config.blacklistKey(accessToken), "", e.config.Blacklist.EntryTTL); err != nil {
		e.emitAudit(ctx, auditEventLogout, false, "", "", err, func() map[string]string {
			return map[string]string{
				"reason": "blacklist_write_failed",
			}
		})
		return err
	}
	e.metricInc(MetricTokenBlacklisted)

	if err := e.tokens.Revoke(ctx, req.RefreshToken); err != nil {
		e.emitAudit(ctx, auditEventLogout, false, "", "", err, func() map[string]string {
			return map[string]string{
				"reason": "revoke_failed",
			}
		})
		return err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", "", nil, nil)

	return nil
}
