package sessioncore

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero otp expiry", func(c *Config) { c.Otp.ExpiryInMinutes = 0 }},
		{"negative otp expiry", func(c *Config) { c.Otp.ExpiryInMinutes = -1 }},
		{"empty namespace", func(c *Config) { c.Blacklist.Namespace = "  " }},
		{"namespace with colon", func(c *Config) { c.Blacklist.Namespace = "black:list" }},
		{"namespace with space", func(c *Config) { c.Blacklist.Namespace = "black list" }},
		{"zero blacklist ttl", func(c *Config) { c.Blacklist.EntryTTL = 0 }},
		{"lockout without threshold", func(c *Config) {
			c.Lockout.Enabled = true
			c.Lockout.Threshold = 0
		}},
		{"lockout without window", func(c *Config) {
			c.Lockout.Enabled = true
			c.Lockout.Window = 0
		}},
	}

	for _, tc := range cases {
		cfg := defaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestDisabledLockoutSkipsPolicyValidation(t *testing.T) {
	cfg := defaultConfig()
	cfg.Lockout.Enabled = false
	cfg.Lockout.Threshold = 0
	cfg.Lockout.Window = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled lockout should not require a policy: %v", err)
	}
}

func TestOtpExpiryConversion(t *testing.T) {
	cfg := OtpConfig{ExpiryInMinutes: 5}
	if got := cfg.expiry(); got != 5*time.Minute {
		t.Fatalf("expiry = %v, want 5m", got)
	}
}

func TestBlacklistKeyFormat(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.blacklistKey("tok-1"); got != "blacklist:tok-1" {
		t.Fatalf("key = %q, want blacklist:tok-1", got)
	}

	cfg.Blacklist.Namespace = "revoked"
	if got := cfg.blacklistKey("tok-1"); got != "revoked:tok-1" {
		t.Fatalf("key = %q, want revoked:tok-1", got)
	}
}
