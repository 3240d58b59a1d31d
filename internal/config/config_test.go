package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalens.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_RESTBackend(t *testing.T) {
	path := writeConfig(t, `
version: 1
catalog:
  url: http://catalog.internal:8000
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog.URL != "http://catalog.internal:8000" {
		t.Errorf("unexpected url: %s", cfg.Catalog.URL)
	}
	if cfg.Catalog.TimeoutSeconds != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.Catalog.TimeoutSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_PostgresDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
catalog:
  postgres:
    host: db.internal
    database: pixel
    username: reader
    password: secret
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pg := cfg.Catalog.Postgres
	if pg == nil {
		t.Fatal("expected postgres config")
	}
	if pg.Port != 5432 {
		t.Errorf("expected default port 5432, got %d", pg.Port)
	}
	if pg.Schema != "" {
		t.Errorf("schema should stay empty (all schemas), got %s", pg.Schema)
	}
}

func TestLoad_WrongVersion(t *testing.T) {
	path := writeConfig(t, "version: 99\ncatalog:\n  url: http://x\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoad_NoBackend(t *testing.T) {
	path := writeConfig(t, "version: 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when neither url nor postgres is set")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog.URL == "" {
		t.Error("default config must point at a local catalog service")
	}
}

func TestResolveValue_Env(t *testing.T) {
	t.Setenv("CATALENS_TEST_PW", "hunter2")
	v, err := ResolveValue("${ENV:CATALENS_TEST_PW}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hunter2" {
		t.Errorf("expected hunter2, got %s", v)
	}

	if _, err := ResolveValue("${ENV:CATALENS_UNSET_VAR}"); err == nil {
		t.Error("expected error for unset variable")
	}

	plain, err := ResolveValue("literal")
	if err != nil || plain != "literal" {
		t.Errorf("plain values must pass through, got %q, %v", plain, err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "catalens.yaml")
	cfg := Default()
	cfg.Catalog.URL = "http://example:9999"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Catalog.URL != "http://example:9999" {
		t.Errorf("round trip lost url, got %s", loaded.Catalog.URL)
	}
}
