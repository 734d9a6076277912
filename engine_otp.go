package sessioncore

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SendOtp looks up the user, dispatches a one-time code to their phone, and
// registers an unverified session correlating a fresh random sessionId to
// the username for the configured OTP validity window.
//
// An unknown username fails with [ErrUserNotFound]. A dispatch failure
// fails with [ErrOtpDelivery]; the upstream cause is not attached, only the
// generic classification. The returned sessionId, not the username, is the
// caller-visible correlation token for the rest of the OTP round trip.
func (e *Engine) SendOtp(ctx context.Context, req OtpVerificationRequest) (*OtpResponse, error) {
	if e.users == nil || e.otpChannel == nil || e.unverifiedSessions == nil {
		return nil, ErrEngineNotReady
	}

	user, err := e.users.UserWith(ctx, req.Username)
	if err != nil {
		e.emitAudit(ctx, auditEventOtpSendFailure, false, req.Username, "", err, nil)
		return nil, err
	}
	if user == nil {
		e.metricInc(MetricOtpSendFailure)
		e.emitAudit(ctx, auditEventOtpSendFailure, false, req.Username, "", ErrUserNotFound, nil)
		return nil, ErrUserNotFound
	}

	sessionID := uuid.NewString()
	otpReq := OtpRequest{
		SessionID: sessionID,
		Communication: Communication{
			Mode:  CommunicationModeMobile,
			Value: user.Phone,
		},
	}

	if err := e.otpChannel.Send(ctx, otpReq); err != nil {
		e.metricInc(MetricOtpSendFailure)
		e.emitAudit(ctx, auditEventOtpSendFailure, false, req.Username, sessionID, ErrOtpDelivery, func() map[string]string {
			return map[string]string{
				"reason": "dispatch_failed",
			}
		})
		return nil, ErrOtpDelivery
	}

	expiry := e.config.Otp.expiry()
	if err := e.unverifiedSessions.Put(ctx, sessionID, req.Username, expiry); err != nil {
		e.emitAudit(ctx, auditEventOtpSendFailure, false, req.Username, sessionID, err, func() map[string]string {
			return map[string]string{
				"reason": "session_store_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricOtpSent)
	e.emitAudit(ctx, auditEventOtpSent, true, req.Username, sessionID, nil, nil)

	return &OtpResponse{
		SessionID: sessionID,
		Meta: OtpMeta{
			CommunicationExpiry: strconv.Itoa(int(expiry.Seconds())),
			CommunicationHint:   maskPhone(user.Phone),
		},
	}, nil
}

// ValidateOtp completes the OTP round trip: it resolves the unverified
// session for req.SessionID, checks the recorded username, and delegates to
// the token service's OTP grant. The grant's result is returned unchanged
// in both directions.
//
// A missing session and a username mismatch fail with the same
// [ErrInvalidOtpSession]; keeping the two cases indistinguishable is
// deliberate and must be preserved.
func (e *Engine) ValidateOtp(ctx context.Context, req OtpPermitRequest) (*Session, error) {
	if e.tokens == nil || e.unverifiedSessions == nil {
		return nil, ErrEngineNotReady
	}

	storedUsername, err := e.unverifiedSessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			e.metricInc(MetricOtpRejected)
			e.emitAudit(ctx, auditEventOtpRejected, false, req.Username, req.SessionID, ErrInvalidOtpSession, func() map[string]string {
				return map[string]string{
					"reason": "session_not_found",
				}
			})
			return nil, ErrInvalidOtpSession
		}
		e.emitAudit(ctx, auditEventOtpRejected, false, req.Username, req.SessionID, err, nil)
		return nil, err
	}

	if storedUsername != req.Username {
		e.metricInc(MetricOtpRejected)
		e.emitAudit(ctx, auditEventOtpRejected, false, req.Username, req.SessionID, ErrInvalidOtpSession, func() map[string]string {
			return map[string]string{
				"reason": "username_mismatch",
			}
		})
		return nil, ErrInvalidOtpSession
	}

	sess, err := e.tokens.TokenForOtpUser(ctx, req.Username, req.SessionID, req.Otp)
	if err != nil {
		e.metricInc(MetricOtpRejected)
		e.emitAudit(ctx, auditEventOtpRejected, false, req.Username, req.SessionID, err, nil)
		return nil, err
	}

	// Single use: a validated session must not be replayable inside the TTL
	// window. The grant already succeeded, so a failed delete only widens
	// the replay exposure back to the TTL bound.
	if err := e.unverifiedSessions.Delete(ctx, req.SessionID); err != nil {
		log.Print("sessioncore: unverified session delete failed after validation")
	}

	e.metricInc(MetricOtpValidated)
	e.emitAudit(ctx, auditEventOtpValidated, true, req.Username, req.SessionID, nil, nil)

	return sess, nil
}

// maskPhone hides all but the last four digits of a communication address.
func maskPhone(phone string) string {
	const visible = 4

	phone = strings.TrimSpace(phone)
	if len(phone) <= visible {
		return phone
	}
	return strings.Repeat("X", len(phone)-visible) + phone[len(phone)-visible:]
}
