package sessioncore

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSessionSuccess   = "session_success"
	auditEventSessionFailure   = "session_failure"
	auditEventSessionLockedOut = "session_locked_out"
	auditEventLogout           = "logout"
	auditEventOtpSent          = "otp_sent"
	auditEventOtpSendFailure   = "otp_send_failure"
	auditEventOtpValidated     = "otp_validated"
	auditEventOtpRejected      = "otp_rejected"
)

// AuditErrorCode defines a public type used by sessioncore APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthorized      AuditErrorCode = "unauthorized"
	auditErrUserNotFound      AuditErrorCode = "user_not_found"
	auditErrInvalidOtpSession AuditErrorCode = "invalid_otp_session"
	auditErrOtpDelivery       AuditErrorCode = "otp_delivery_failed"
	auditErrInvalidOtp        AuditErrorCode = "invalid_otp"
	auditErrRevokeFailed      AuditErrorCode = "revoke_failed"
	auditErrUnavailable       AuditErrorCode = "backend_unavailable"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrInvalidPassword):
		return auditErrUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrInvalidOtpSession):
		return auditErrInvalidOtpSession
	case errors.Is(err, ErrOtpDelivery):
		return auditErrOtpDelivery
	case errors.Is(err, ErrInvalidOtp):
		return auditErrInvalidOtp
	case errors.Is(err, ErrRevokeFailed):
		return auditErrRevokeFailed
	case errors.Is(err, ErrCacheUnavailable),
		errors.Is(err, ErrTrackerUnavailable),
		errors.Is(err, ErrDirectoryUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
