package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDUPATH_API_URL", "")
	t.Setenv("EDUPATH_SESSION_BACKEND", "")
	t.Setenv("EDUPATH_HTTP_TIMEOUT", "")
	t.Setenv("STUB_TOKEN_TTL", "")

	cfg := Load()
	if cfg.APIURL != "http://localhost:8001" {
		t.Fatalf("unexpected default API URL %s", cfg.APIURL)
	}
	if cfg.SessionBackend != BackendFile {
		t.Fatalf("unexpected default backend %s", cfg.SessionBackend)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected default timeout %s", cfg.HTTPTimeout)
	}
	if cfg.StubTokenTTL != 30*time.Minute {
		t.Fatalf("unexpected default token ttl %s", cfg.StubTokenTTL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("EDUPATH_API_URL", "https://edupath.example.org/")
	t.Setenv("EDUPATH_HTTP_TIMEOUT", "5s")
	t.Setenv("EDUPATH_SESSION_BACKEND", "Redis")
	t.Setenv("EDUPATH_REDIS_DB", "3")
	t.Setenv("EDUPATH_SESSION_TTL_SECONDS", "3600")
	t.Setenv("EDUPATH_LANG", "hi")
	t.Setenv("STUB_CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.APIURL != "https://edupath.example.org" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.SessionBackend != BackendRedis {
		t.Fatalf("expected redis backend, got %s", cfg.SessionBackend)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("expected 1h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.Language != "hi" {
		t.Fatalf("expected language override, got %s", cfg.Language)
	}
	if len(cfg.StubCORSOrigins) != 2 || cfg.StubCORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.StubCORSOrigins)
	}
}
