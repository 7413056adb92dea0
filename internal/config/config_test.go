package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	content := `
server:
  port: 9090
  host: "127.0.0.1"

database:
  host: "testdb"
  port: 5432
  user: "testuser"
  password: "testpass"
  dbname: "testdb"

auth:
  accessTokenSecret: "test-access-secret"
  refreshTokenSecret: "test-refresh-secret"
  accessTokenExpiry: "15m"
`

	cfg, err := Load(writeTempConfig(t, content))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Database.Host != "testdb" {
		t.Errorf("Expected database host testdb, got %s", cfg.Database.Host)
	}

	if cfg.Auth.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("Expected access token expiry 15m, got %v", cfg.Auth.AccessTokenExpiry)
	}

	// Values not present in the file fall back to defaults.
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Expected default max conns 25, got %d", cfg.Database.MaxConns)
	}

	if cfg.Auth.RefreshTokenExpiry != 240*time.Hour {
		t.Errorf("Expected default refresh token expiry 240h, got %v", cfg.Auth.RefreshTokenExpiry)
	}

	if cfg.Storage.BucketName != "vidtube-media" {
		t.Errorf("Expected default bucket vidtube-media, got %s", cfg.Storage.BucketName)
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	content := `
server:
  port: 8080
`

	if _, err := Load(writeTempConfig(t, content)); err == nil {
		t.Error("Expected error when token secrets are missing")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
