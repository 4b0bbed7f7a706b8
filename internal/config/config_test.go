package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/restclient/pkg/restclient"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REST_CLIENT_TOKEN", "")
	t.Setenv("REST_CLIENT_ENDPOINT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Identifier != restclient.DefaultIdentifier {
		t.Fatalf("unexpected identifier %q", cfg.Identifier)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.RequestTimeout)
	}
	if cfg.CacheEnabled() {
		t.Fatalf("cache must be disabled by default")
	}
	if _, ok := cfg.Lookup()(restclient.EnvToken); ok {
		t.Fatalf("token must be missing")
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	t.Setenv("REST_CLIENT_TOKEN", "")
	t.Setenv("REST_CLIENT_ENDPOINT", "")
	os.Unsetenv("REST_CLIENT_TOKEN")
	os.Unsetenv("REST_CLIENT_ENDPOINT")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	path := filepath.Join(t.TempDir(), ".env")
	content := "REST_CLIENT_TOKEN=file-token\nREST_CLIENT_ENDPOINT=http://file.example.com/api\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("REST_CLIENT_TOKEN")
		os.Unsetenv("REST_CLIENT_ENDPOINT")
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "file-token" || cfg.Endpoint != "http://file.example.com/api" {
		t.Fatalf("env file not applied: %#v", cfg)
	}
	if cfg.CacheTTL != time.Minute || !cfg.CacheEnabled() {
		t.Fatalf("unexpected cache ttl %v", cfg.CacheTTL)
	}

	lookup := cfg.Lookup()
	if v, ok := lookup(restclient.EnvEndpoint); !ok || v != "http://file.example.com/api" {
		t.Fatalf("lookup did not expose endpoint, got %q", v)
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-1")
	if _, err := Load(filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNormalizeRejectsZeroCleanup(t *testing.T) {
	cfg := Config{CacheCleanupSeconds: 0}
	if err := cfg.Normalize(); err == nil {
		t.Fatalf("expected error for zero cleanup interval")
	}
}

func TestLoadHeadersYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "headers.yaml")
	if err := os.WriteFile(yamlPath, []byte("X-Team: hosting\nX-Empty: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	jsonPath := filepath.Join(dir, "headers.json")
	if err := os.WriteFile(jsonPath, []byte(`{" X-Env ": " prod "}`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	h, err := LoadHeaders(yamlPath)
	if err != nil {
		t.Fatalf("LoadHeaders yaml: %v", err)
	}
	if len(h) != 1 || h["X-Team"] != "hosting" {
		t.Fatalf("unexpected yaml headers %#v", h)
	}

	h, err = LoadHeaders(jsonPath)
	if err != nil {
		t.Fatalf("LoadHeaders json: %v", err)
	}
	if h["X-Env"] != "prod" {
		t.Fatalf("unexpected json headers %#v", h)
	}
}

func TestLoadHeadersRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadHeaders(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadHeaders(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
