package sessioncore

import "context"

// SessionRequest carries the credentials for a password login. Both fields
// are required; empty values fail with [ErrUnauthorized] before any token
// service call is made.
type SessionRequest struct {
	Username string
	Password string
}

// Session is the opaque bearer session returned by a [TokenService]. The
// Engine returns it to the caller untouched.
type Session struct {
	AccessToken      string `json:"accessToken"`
	ExpiresIn        int64  `json:"expiresIn"`
	RefreshToken     string `json:"refreshToken,omitempty"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn,omitempty"`
	TokenType        string `json:"tokenType"`
}

// LogoutRequest carries the refresh token to revoke alongside the blacklist
// write performed by [Engine.Logout].
type LogoutRequest struct {
	RefreshToken string
}

// OtpVerificationRequest triggers OTP dispatch for the given username.
type OtpVerificationRequest struct {
	Username string
}

// OtpPermitRequest completes an OTP round trip. SessionID is the identifier
// returned by [Engine.SendOtp]; Username must match the one recorded for it.
type OtpPermitRequest struct {
	Username  string
	SessionID string
	Otp       string
}

// OtpMeta is caller-facing metadata about a dispatched OTP: how long the
// code is valid (seconds, as a string) and a masked hint of the address it
// was sent to.
type OtpMeta struct {
	CommunicationExpiry string `json:"communicationExpiry"`
	CommunicationHint   string `json:"communicationHint"`
}

// OtpResponse is returned by [Engine.SendOtp]. SessionID is the only
// caller-visible correlation token for the OTP round trip; the username is
// never echoed back.
type OtpResponse struct {
	SessionID string  `json:"sessionId"`
	Meta      OtpMeta `json:"meta"`
}

// CommunicationModeMobile is the delivery mode for phone-number OTP dispatch.
const CommunicationModeMobile = "MOBILE"

// Communication is the delivery address of an OTP request.
type Communication struct {
	Mode  string `json:"mode"`
	Value string `json:"value"`
}

// OtpRequest is handed to an [OtpChannelClient] for dispatch.
type OtpRequest struct {
	SessionID     string        `json:"sessionId"`
	Communication Communication `json:"communication"`
}

// User is the read-only record returned by a [UserDirectory].
type User struct {
	Username string
	Name     string
	Phone    string
}

// LockedUser is the failed-login record kept by a [LockedUserTracker].
// FailedAttempts increases monotonically until a successful authentication
// or an explicit Remove; the Engine never decrements it.
type LockedUser struct {
	Username       string
	FailedAttempts int
	Locked         bool
}

// TokenService issues and revokes opaque session tokens. TokenForUser
// failures are classified by the Engine with errors.Is against
// [ErrInvalidUsername] and [ErrInvalidPassword]; every other failure
// propagates with its native classification. TokenForOtpUser results are
// returned to the caller unchanged in both directions.
type TokenService interface {
	TokenForUser(ctx context.Context, username, password string) (*Session, error)
	TokenForOtpUser(ctx context.Context, username, sessionID, otp string) (*Session, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// UserDirectory is a read-only lookup of user records by username.
// A missing user is reported as (nil, nil), not an error.
type UserDirectory interface {
	UserWith(ctx context.Context, username string) (*User, error)
}

// OtpChannelClient dispatches a one-time code to a communication address.
// A nil return means the request was accepted for delivery, not that the
// code arrived.
type OtpChannelClient interface {
	Send(ctx context.Context, req OtpRequest) error
}

// LockedUserTracker records and queries failed-login state per principal.
// CreateUser merges into an existing record when one is present, so callers
// may invoke it unconditionally inside a failure branch.
type LockedUserTracker interface {
	UserFor(ctx context.Context, username string) (*LockedUser, error)
	CreateUser(ctx context.Context, username string) error
	Remove(ctx context.Context, username string) error
}
