package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("COUNTRY_CODE", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	cfg := Load()
	if cfg.Port != "8000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("expected memory session store, got %s", cfg.SessionStore)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CountryCode != "+91" {
		t.Fatalf("expected default country code, got %s", cfg.CountryCode)
	}
	if cfg.RephraseTimeout != 4*time.Second {
		t.Fatalf("expected default rephrase timeout, got %s", cfg.RephraseTimeout)
	}
	if cfg.ValidateSignatures {
		t.Fatalf("expected signature validation off without an auth token")
	}
	if cfg.DashboardChatCap != 500 {
		t.Fatalf("expected default chat cap, got %d", cfg.DashboardChatCap)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REPHRASE_TIMEOUT", "1500ms")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.SessionStore != "redis" {
		t.Fatalf("expected redis session store, got %s", cfg.SessionStore)
	}
	if cfg.RedisAddr != "localhost:6380" {
		t.Fatalf("expected overridden redis addr, got %s", cfg.RedisAddr)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected overridden session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.RephraseTimeout != 1500*time.Millisecond {
		t.Fatalf("expected overridden rephrase timeout, got %s", cfg.RephraseTimeout)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("expected openai key set")
	}
	if !cfg.ValidateSignatures {
		t.Fatalf("expected signature validation on when auth token present")
	}
}

// An auth token turns signature validation on unless explicitly disabled.
func TestLoadSignatureValidationOptOut(t *testing.T) {
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("VALIDATE_TWILIO_SIGNATURES", "false")
	cfg := Load()
	if cfg.ValidateSignatures {
		t.Fatalf("expected explicit opt-out to win")
	}
}
