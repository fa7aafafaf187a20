package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT", "API_RATE_LIMIT", "API_RATE_BURST", "REALTIME_URL", "APP_ENV", "TOKEN_DB_PATH"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.API.BaseURL != "http://localhost:3000" {
		t.Fatalf("expected default base url, got %q", cfg.API.BaseURL)
	}
	if cfg.APIURL() != "http://localhost:3000/api/v1" {
		t.Fatalf("expected versioned api url, got %q", cfg.APIURL())
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Realtime.URL != "ws://localhost:3000/ws" {
		t.Fatalf("expected derived realtime url, got %q", cfg.Realtime.URL)
	}
	if cfg.Service.Env != "development" {
		t.Fatalf("expected development env, got %q", cfg.Service.Env)
	}
	if cfg.API.RateLimit != 10 || cfg.API.RateBurst != 20 {
		t.Fatalf("expected 10 rps burst 20, got %v/%d", cfg.API.RateLimit, cfg.API.RateBurst)
	}
	if cfg.Credentials.DBPath != "livechat.db" {
		t.Fatalf("expected default token db, got %q", cfg.Credentials.DBPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://chat.example.com/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("REALTIME_URL", "")
	t.Setenv("REALTIME_READ_LIMIT", "not-a-number")
	t.Setenv("API_RATE_LIMIT", "2.5")

	cfg := Load()
	if cfg.API.BaseURL != "https://chat.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", cfg.API.Timeout)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env, got %q", cfg.Service.Env)
	}
	if cfg.Realtime.URL != "wss://chat.example.com/ws" {
		t.Fatalf("expected wss url, got %q", cfg.Realtime.URL)
	}
	if cfg.API.RateLimit != 2.5 {
		t.Fatalf("expected 2.5 rps, got %v", cfg.API.RateLimit)
	}
	if cfg.Realtime.ReadLimit != 512*1024 {
		t.Fatalf("expected fallback read limit, got %d", cfg.Realtime.ReadLimit)
	}
}

func TestRealtimeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://localhost:3000", "ws://localhost:3000/ws"},
		{"https://api.example.com/base/", "wss://api.example.com/base/ws"},
		{"not a url", "ws://localhost:3000/ws"},
	}
	for _, tt := range tests {
		if got := RealtimeURL(tt.in); got != tt.want {
			t.Errorf("RealtimeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
