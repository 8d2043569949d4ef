package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("port: got %q, want 8080", cfg.ServerPort)
	}
	if cfg.StateBackend != "memory" {
		t.Errorf("state backend: got %q", cfg.StateBackend)
	}
	if cfg.CleanupDelay() != time.Second {
		t.Errorf("cleanup delay: got %v, want 1s", cfg.CleanupDelay())
	}
	if !cfg.RespectRobots {
		t.Error("robots should be respected by default")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("CLEANUP_DELAY_MS", "0")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("port: got %q", cfg.ServerPort)
	}
	if cfg.StateBackend != "redis" {
		t.Errorf("state backend: got %q", cfg.StateBackend)
	}
	if cfg.CleanupDelay() != 0 {
		t.Errorf("cleanup delay: got %v", cfg.CleanupDelay())
	}
}

func TestLoadFrom_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "POSTGRES_HOST=db\nPOSTGRES_DB=companies\nSTORAGE_BACKEND=mongo\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "postgres://user:password@db:5432/companies?sslmode=disable"
	if got := cfg.PostgresURL(); got != want {
		t.Errorf("postgres url: got %q, want %q", got, want)
	}
	if cfg.StorageBackend != "mongo" {
		t.Errorf("storage backend: got %q", cfg.StorageBackend)
	}
}

func TestLoadFrom_InvalidBackend(t *testing.T) {
	t.Setenv("STATE_BACKEND", "etcd")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error for unknown state backend")
	}
}
