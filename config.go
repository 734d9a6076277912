package sessioncore

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by sessioncore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Otp       OtpConfig
	Blacklist BlacklistConfig
	Lockout   LockoutConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
OTP CONFIG
====================================
*/

// OtpConfig defines a public type used by sessioncore APIs.
//
// OtpConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OtpConfig struct {
	// ExpiryInMinutes is the OTP validity window. It is also the TTL of the
	// unverified-session record correlating sessionId to username.
	ExpiryInMinutes int
}

func (c OtpConfig) expiry() time.Duration {
	return time.Duration(c.ExpiryInMinutes) * time.Minute
}

/*
====================================
BLACKLIST CONFIG
====================================
*/

// BlacklistConfig defines a public type used by sessioncore APIs.
//
// BlacklistConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BlacklistConfig struct {
	// Namespace prefixes every blacklist key: "<namespace>:<accessToken>".
	Namespace string
	// EntryTTL bounds how long a revoked token is remembered. It must cover
	// the longest access token lifetime the issuing token service uses.
	EntryTTL time.Duration
}

/*
====================================
LOCKOUT CONFIG
====================================
*/

// LockoutConfig defines a public type used by sessioncore APIs.
//
// LockoutConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LockoutConfig struct {
	// Enabled gates password logins on lock state before any token service
	// call. When false the tracker is still fed on credential failures but
	// never consulted.
	Enabled bool
	// Threshold is the consecutive-failure count at which an account is
	// considered locked.
	Threshold int
	// Window is the rolling period after the first failure in which the
	// counter lives. The record expires on its own afterwards.
	Window time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by sessioncore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by sessioncore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Otp: OtpConfig{
			ExpiryInMinutes: 5,
		},
		Blacklist: BlacklistConfig{
			Namespace: "blacklist",
			EntryTTL:  24 * time.Hour,
		},
		Lockout: LockoutConfig{
			Enabled:   false,
			Threshold: 5,
			Window:    15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Otp.ExpiryInMinutes <= 0 {
		return errors.New("otp expiry must be positive")
	}
	if strings.TrimSpace(c.Blacklist.Namespace) == "" {
		return errors.New("blacklist namespace must not be empty")
	}
	if strings.ContainsAny(c.Blacklist.Namespace, " :") {
		return errors.New("blacklist namespace must not contain spaces or colons")
	}
	if c.Blacklist.EntryTTL <= 0 {
		return errors.New("blacklist entry TTL must be positive")
	}
	if c.Lockout.Enabled {
		if c.Lockout.Threshold <= 0 {
			return errors.New("lockout threshold must be positive when lockout is enabled")
		}
		if c.Lockout.Window <= 0 {
			return errors.New("lockout window must be positive when lockout is enabled")
		}
	}
	return nil
}

func (c Config) blacklistKey(accessToken string) string {
	return c.Blacklist.Namespace + ":" + accessToken
}
