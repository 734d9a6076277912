package sessioncore

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// unverifiedSessionsPrefix namespaces the OTP session registry away from
// blacklist entries sharing the same Redis database.
const unverifiedSessionsPrefix = "usn"

// Builder defines a public type used by sessioncore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	tokens      TokenService
	users       UserDirectory
	otpChannel  OtpChannelClient
	lockedUsers LockedUserTracker
	auditSink   AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTokenService describes the withtokenservice operation and its observable behavior.
//
// WithTokenService may return an error when input validation, dependency calls, or security checks fail.
// WithTokenService does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTokenService(ts TokenService) *Builder {
	b.tokens = ts
	return b
}

// WithUserDirectory describes the withuserdirectory operation and its observable behavior.
//
// WithUserDirectory may return an error when input validation, dependency calls, or security checks fail.
// WithUserDirectory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserDirectory(users UserDirectory) *Builder {
	b.users = users
	return b
}

// WithOtpChannel describes the withotpchannel operation and its observable behavior.
//
// WithOtpChannel may return an error when input validation, dependency calls, or security checks fail.
// WithOtpChannel does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithOtpChannel(client OtpChannelClient) *Builder {
	b.otpChannel = client
	return b
}

// WithLockedUserTracker overrides the Redis-backed tracker built by default.
//
// WithLockedUserTracker may return an error when input validation, dependency calls, or security checks fail.
// WithLockedUserTracker does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLockedUserTracker(tracker LockedUserTracker) *Builder {
	b.lockedUsers = tracker
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.tokens == nil {
		return nil, errors.New("token service required")
	}
	if b.users == nil {
		return nil, errors.New("user directory required")
	}
	if b.otpChannel == nil {
		return nil, errors.New("otp channel client required")
	}

	engine := &Engine{
		config:     cfg,
		tokens:     b.tokens,
		users:      b.users,
		otpChannel: b.otpChannel,
		// The engine formats blacklist keys itself so the stored key is
		// exactly "<namespace>:<accessToken>"; the cache adds no prefix.
		blacklistedTokens:  NewRedisCache(b.redis, "", cfg.Blacklist.EntryTTL),
		unverifiedSessions: NewRedisCache(b.redis, unverifiedSessionsPrefix, cfg.Otp.expiry()),
	}

	engine.lockedUsers = b.lockedUsers
	if engine.lockedUsers == nil {
		engine.lockedUsers = NewRedisLockedUserTracker(b.redis, cfg.Lockout)
	}
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
