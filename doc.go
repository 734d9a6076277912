// Package sessioncore implements session establishment and account-lockout
// protection for a consent-management identity service: password and OTP
// login flows, session token issuance and revocation, a token blacklist,
// and failed-login bookkeeping per principal.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// sessioncore is the public surface. It exposes [Engine], [Builder],
// [Config], the collaborator contracts ([TokenService], [UserDirectory],
// [OtpChannelClient], [LockedUserTracker], [CacheAdapter]) and value types
// (Session, OtpResponse, LockedUser, etc.). Redis-backed implementations of
// the cache adapter and locked-user tracker live in this package; a bundled
// token service lives under tokens/ and an HTTP OTP channel client under
// otpgateway/. Request/response wire shapes, the controller layer, and user
// record persistence all belong to the caller.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key layouts in its public API.
//   - Reinterpret a TokenService failure during OTP validation or token
//     revocation; those pass through with their native classification.
//   - Distinguish "unknown OTP session" from "session held by another user"
//     to the caller, or "unknown username" from "wrong password". The
//     uniform error kinds are an anti-enumeration measure.
//
// # Failure contract
//
// Every failure from a collaborator is either re-classified into one of the
// package sentinels (ErrUnauthorized, ErrUserNotFound, ErrInvalidOtpSession,
// ErrOtpDelivery) or passed through unchanged. The Engine performs no silent
// retries and no compensating rollback.
package sessioncore
