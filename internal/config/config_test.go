package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Env != "dev" {
		t.Fatalf("got env %q, want dev", cfg.Env)
	}

	if cfg.Port != 8080 {
		t.Fatalf("got port %d, want 8080", cfg.Port)
	}

	if cfg.TokenTTL != 5*time.Minute {
		t.Fatalf("got token ttl %v, want 5m", cfg.TokenTTL)
	}

	if cfg.DBURL == "" {
		t.Fatal("expected a non-empty DB URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL_MINUTES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.Env != "prod" {
		t.Fatalf("got env %q, want prod", cfg.Env)
	}

	if cfg.Port != 9090 {
		t.Fatalf("got port %d, want 9090", cfg.Port)
	}

	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvIntBadValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Fatalf("got port %d, want fallback 8080", cfg.Port)
	}
}
