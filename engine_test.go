package sessioncore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type fakeTokenService struct {
	tokenCalls  int
	otpCalls    int
	revokeCalls int

	lastUsername  string
	lastSessionID string
	lastOtp       string
	lastRefresh   string

	session   *Session
	tokenErr  error
	otpErr    error
	revokeErr error
}

func (f *fakeTokenService) TokenForUser(_ context.Context, username, _ string) (*Session, error) {
	f.tokenCalls++
	f.lastUsername = username
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.session, nil
}

func (f *fakeTokenService) TokenForOtpUser(_ context.Context, username, sessionID, otp string) (*Session, error) {
	f.otpCalls++
	f.lastUsername = username
	f.lastSessionID = sessionID
	f.lastOtp = otp
	if f.otpErr != nil {
		return nil, f.otpErr
	}
	return f.session, nil
}

func (f *fakeTokenService) Revoke(_ context.Context, refreshToken string) error {
	f.revokeCalls++
	f.lastRefresh = refreshToken
	return f.revokeErr
}

type fakeUserDirectory struct {
	calls int
	user  *User
	err   error
}

func (f *fakeUserDirectory) UserWith(_ context.Context, _ string) (*User, error) {
	f.calls++
	return f.user, f.err
}

type fakeOtpChannel struct {
	calls int
	last  OtpRequest
	err   error
}

func (f *fakeOtpChannel) Send(_ context.Context, request OtpRequest) error {
	f.calls++
	f.last = request
	return f.err
}

type fakeTracker struct {
	userForCalls int
	createCalls  int
	removeCalls  int

	record     *LockedUser
	userForErr error
	createErr  error
	removeErr  error
}

func (f *fakeTracker) UserFor(_ context.Context, _ string) (*LockedUser, error) {
	f.userForCalls++
	return f.record, f.userForErr
}

func (f *fakeTracker) CreateUser(_ context.Context, _ string) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeTracker) Remove(_ context.Context, _ string) error {
	f.removeCalls++
	return f.removeErr
}

func testSession() *Session {
	return &Session{
		AccessToken:      "access-1",
		ExpiresIn:        900,
		RefreshToken:     "refresh-1",
		RefreshExpiresIn: 3600,
		TokenType:        "bearer",
	}
}

// newTestEngine wires an Engine directly against miniredis-backed stores and
// the given fakes, bypassing the builder.
func newTestEngine(t *testing.T, cfg Config, tokens TokenService, users UserDirectory, channel OtpChannelClient, tracker LockedUserTracker) (*Engine, *redis.Client) {
	t.Helper()
	_, client := newTestRedis(t)

	engine := &Engine{
		config:             cfg,
		tokens:             tokens,
		users:              users,
		otpChannel:         channel,
		lockedUsers:        tracker,
		blacklistedTokens:  NewRedisCache(client, "", cfg.Blacklist.EntryTTL),
		unverifiedSessions: NewRedisCache(client, unverifiedSessionsPrefix, cfg.Otp.expiry()),
		metrics:            NewMetrics(cfg.Metrics),
	}
	return engine, client
}

func requireTTLWithin(t *testing.T, client *redis.Client, key string, want time.Duration) {
	t.Helper()
	ttl, err := client.TTL(context.Background(), key).Result()
	if err != nil {
		t.Fatalf("ttl %s: %v", key, err)
	}
	if ttl <= 0 || ttl > want {
		t.Fatalf("ttl for %s = %v, want (0, %v]", key, ttl, want)
	}
}
