package sessioncore

import "errors"

var (
	// ErrUnauthorized is an exported constant or variable used by the session core.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidUsername is an exported constant or variable used by the session core.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidPassword is an exported constant or variable used by the session core.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrUserNotFound is an exported constant or variable used by the session core.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidOtpSession is an exported constant or variable used by the session core.
	ErrInvalidOtpSession = errors.New("invalid otp session")
	// ErrOtpDelivery is an exported constant or variable used by the session core.
	ErrOtpDelivery = errors.New("otp delivery failed")
	// ErrInvalidOtp is an exported constant or variable used by the session core.
	ErrInvalidOtp = errors.New("invalid otp")
	// ErrRevokeFailed is an exported constant or variable used by the session core.
	ErrRevokeFailed = errors.New("refresh token revocation failed")
	// ErrCacheMiss is an exported constant or variable used by the session core.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheUnavailable is an exported constant or variable used by the session core.
	ErrCacheUnavailable = errors.New("cache backend unavailable")
	// ErrTrackerUnavailable is an exported constant or variable used by the session core.
	ErrTrackerUnavailable = errors.New("locked user backend unavailable")
	// ErrDirectoryUnavailable is an exported constant or variable used by the session core.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the session core.
	ErrEngineNotReady = errors.New("engine not initialized")
)
