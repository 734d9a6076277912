package tokens

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carenet-id/sessioncore"
)

const (
	refreshKeyPrefix = "rt:"
	otpKeyPrefix     = "otp:"

	grantPassword = "password"
	grantOtp      = "otp"
)

var errBackend = errors.New("token store backend failure")

// CredentialSource defines a public type used by sessioncore APIs.
//
// CredentialSource instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// PasswordHashFor returns the stored Argon2id PHC hash for a username, or
// ("", nil) when the username is unknown. The service never learns plaintext
// passwords from the source.
type CredentialSource interface {
	PasswordHashFor(ctx context.Context, username string) (string, error)
}

// Config defines a public type used by sessioncore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Signer     SignerConfig
	RefreshTTL time.Duration
	OtpTTL     time.Duration
	OtpLength  int
}

func (c Config) validate() error {
	if c.RefreshTTL <= 0 {
		return errors.New("refresh TTL must be positive")
	}
	if c.OtpTTL <= 0 {
		return errors.New("otp TTL must be positive")
	}
	if c.OtpLength < 4 || c.OtpLength > 10 {
		return errors.New("otp length must be between 4 and 10")
	}
	return nil
}

// Service defines a public type used by sessioncore APIs.
//
// Service instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Service implements sessioncore.TokenService with JWT access tokens and
// opaque refresh tokens whose secrets are stored hashed in Redis.
type Service struct {
	config Config
	signer *signer
	redis  redis.UniversalClient
	creds  CredentialSource
	now    func() time.Time
}

// NewService describes the newservice operation and its observable behavior.
//
// NewService may return an error when input validation, dependency calls, or security checks fail.
// NewService does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewService(cfg Config, client redis.UniversalClient, creds CredentialSource) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if creds == nil {
		return nil, errors.New("credential source is required")
	}
	sg, err := newSigner(cfg.Signer)
	if err != nil {
		return nil, err
	}
	return &Service{
		config: cfg,
		signer: sg,
		redis:  client,
		creds:  creds,
		now:    time.Now,
	}, nil
}

// TokenForUser describes the tokenforuser operation and its observable behavior.
//
// TokenForUser may return an error when input validation, dependency calls, or security checks fail.
// TokenForUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Service) TokenForUser(ctx context.Context, username, password string) (*sessioncore.Session, error) {
	hash, err := s.creds.PasswordHashFor(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBackend, err)
	}
	if hash == "" {
		return nil, sessioncore.ErrInvalidUsername
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBackend, err)
	}
	if !ok {
		return nil, sessioncore.ErrInvalidPassword
	}

	return s.issueSession(ctx, username, uuid.NewString(), grantPassword)
}

// TokenForOtpUser describes the tokenforotpuser operation and its observable behavior.
//
// TokenForOtpUser may return an error when input validation, dependency calls, or security checks fail.
// TokenForOtpUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Service) TokenForOtpUser(ctx context.Context, username, sessionID, otp string) (*sessioncore.Session, error) {
	raw, err := s.redis.Get(ctx, otpKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sessioncore.ErrInvalidOtp
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBackend, err)
	}

	challengeUser, code, found := strings.Cut(raw, "\n")
	if !found {
		return nil, sessioncore.ErrInvalidOtp
	}

	userMatch := subtle.ConstantTimeCompare([]byte(challengeUser), []byte(username))
	codeMatch := subtle.ConstantTimeCompare([]byte(code), []byte(otp))
	if userMatch&codeMatch != 1 {
		return nil, sessioncore.ErrInvalidOtp
	}

	// Challenges are single use. A delete failure here is tolerable because
	// the entry expires on its own TTL.
	_ = s.redis.Del(ctx, otpKeyPrefix+sessionID).Err()

	return s.issueSession(ctx, username, sessionID, grantOtp)
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
// Revoke does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	id, _, err := decodeOpaqueToken(refreshToken)
	if err != nil {
		return sessioncore.ErrRevokeFailed
	}
	if err := s.redis.Del(ctx, refreshKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: %v", sessioncore.ErrRevokeFailed, err)
	}
	// Revoking an already-revoked or expired token is a no-op.
	return nil
}

// RegisterOtpChallenge describes the registerotpchallenge operation and its observable behavior.
//
// RegisterOtpChallenge may return an error when input validation, dependency calls, or security checks fail.
// RegisterOtpChallenge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The returned code is what the caller hands to its delivery channel; the
// service only ever stores it alongside the challenge in Redis.
func (s *Service) RegisterOtpChallenge(ctx context.Context, sessionID, username string) (string, error) {
	code, err := generateOtpCode(s.config.OtpLength)
	if err != nil {
		return "", err
	}
	value := username + "\n" + code
	if err := s.redis.Set(ctx, otpKeyPrefix+sessionID, value, s.config.OtpTTL).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", errBackend, err)
	}
	return code, nil
}

// ValidateRefresh describes the validaterefresh operation and its observable behavior.
//
// ValidateRefresh may return an error when input validation, dependency calls, or security checks fail.
// ValidateRefresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It returns the username bound to a live refresh token, or
// sessioncore.ErrUnauthorized when the token is malformed, expired, or
// revoked.
func (s *Service) ValidateRefresh(ctx context.Context, refreshToken string) (string, error) {
	id, secret, err := decodeOpaqueToken(refreshToken)
	if err != nil {
		return "", sessioncore.ErrUnauthorized
	}
	raw, err := s.redis.Get(ctx, refreshKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", sessioncore.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBackend, err)
	}
	storedDigest, username, found := strings.Cut(raw, "\n")
	if !found {
		return "", sessioncore.ErrUnauthorized
	}
	digest := sha256.Sum256(secret)
	if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(digest[:])), []byte(storedDigest)) != 1 {
		return "", sessioncore.ErrUnauthorized
	}
	return username, nil
}

// ParseAccess describes the parseaccess operation and its observable behavior.
//
// ParseAccess may return an error when input validation, dependency calls, or security checks fail.
// ParseAccess does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Service) ParseAccess(tokenStr string) (*AccessClaims, error) {
	return s.signer.parseAccess(tokenStr)
}

func (s *Service) issueSession(ctx context.Context, username, sid, grant string) (*sessioncore.Session, error) {
	now := s.now()

	access, err := s.signer.createAccess(username, sid, grant, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBackend, err)
	}

	secret, err := generateSecret(32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBackend, err)
	}
	refreshID := uuid.NewString()
	digest := sha256.Sum256(secret)
	value := hex.EncodeToString(digest[:]) + "\n" + username
	if err := s.redis.Set(ctx, refreshKeyPrefix+refreshID, value, s.config.RefreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errBackend, err)
	}

	return &sessioncore.Session{
		AccessToken:      access,
		ExpiresIn:        int64(s.config.Signer.AccessTTL.Seconds()),
		RefreshToken:     encodeOpaqueToken(refreshID, secret),
		RefreshExpiresIn: int64(s.config.RefreshTTL.Seconds()),
		TokenType:        "bearer",
	}, nil
}
