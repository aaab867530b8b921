package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testJWTSecret    = "jwt-signing-secret-at-least-32-chars!"
	testDeviceSecret = "device-keyed-hash-secret-32-chars-ok!"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "0.0.0.0"
  port: 3000
database:
  path: "/tmp/fiya-test.db"
  wal_mode: true
  busy_timeout: 5
security:
  jwt:
    secret: "` + testJWTSecret + `"
  device:
    secret: "` + testDeviceSecret + `"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/fiya-test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/fiya-test.db")
	}
	if cfg.Security.JWT.AccessTokenTTL != 60 {
		t.Errorf("AccessTokenTTL = %d, want default 60", cfg.Security.JWT.AccessTokenTTL)
	}
	if cfg.Security.JWT.RefreshTokenTTL != 60 {
		t.Errorf("RefreshTokenTTL = %d, want default 60", cfg.Security.JWT.RefreshTokenTTL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	content := `
database:
  path: "/tmp/fiya-test.db"
security:
  device:
    secret: "` + testDeviceSecret + `"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected error for missing JWT secret, got nil")
	}
	if !strings.Contains(err.Error(), "security.jwt.secret") {
		t.Errorf("error = %v, want mention of security.jwt.secret", err)
	}
}

func TestLoad_MissingDeviceSecret(t *testing.T) {
	content := `
database:
  path: "/tmp/fiya-test.db"
security:
  jwt:
    secret: "` + testJWTSecret + `"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected error for missing device secret, got nil")
	}
	if !strings.Contains(err.Error(), "security.device.secret") {
		t.Errorf("error = %v, want mention of security.device.secret", err)
	}
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	content := `
database:
  path: "/tmp/fiya-test.db"
security:
  jwt:
    secret: "too-short"
  device:
    secret: "` + testDeviceSecret + `"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for short JWT secret, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
database:
  path: "/tmp/fiya-test.db"
security:
  jwt:
    secret: "` + testJWTSecret + `"
  device:
    secret: "` + testDeviceSecret + `"
`
	t.Setenv("FIYA_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("FIYA_JWT_SECRET", "env-supplied-jwt-secret-32-chars-long!!")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Security.JWT.Secret != "env-supplied-jwt-secret-32-chars-long!!" {
		t.Error("JWT secret should come from environment")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}
