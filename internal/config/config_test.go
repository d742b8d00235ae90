package config

import (
	"strings"
	"testing"
	"time"
)

// testSecret is long enough to pass the 32-byte minimum.
const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_MissingSecretFails(t *testing.T) {
	// t.Setenv is not called for SESSION_SECRET, but clear it in case the
	// test environment carries one.
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load to fail without SESSION_SECRET")
	}
}

func TestLoad_ShortSecretFails(t *testing.T) {
	t.Setenv("SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load to fail with a short SESSION_SECRET")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Auth.SessionTTL != 15*time.Minute {
		t.Errorf("expected default TTL 15m, got %v", cfg.Auth.SessionTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected default env to be development")
	}
}

func TestLoad_SessionTTLOverride(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute {
		t.Errorf("expected TTL 30m, got %v", cfg.Auth.SessionTTL)
	}
}

func TestDSN_BuiltFromFields(t *testing.T) {
	d := DatabaseConfig{
		Host:     "dbhost",
		User:     "u",
		Password: "p@ss/word",
		Name:     "registrar",
	}

	dsn := d.DSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}
	// FormatDSN appends the default port when the host has none.
	if want := "tcp(dbhost:3306)"; !strings.Contains(dsn, want) {
		t.Errorf("expected DSN to contain %q, got %q", want, dsn)
	}
	// TIMESTAMP columns scan into time.Time.
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("expected DSN to enable parseTime, got %q", dsn)
	}
	// RowsAffected must count matched rows, not changed rows, or a no-op
	// UPDATE against an existing row is misread as the row being gone.
	if !strings.Contains(dsn, "clientFoundRows=true") {
		t.Errorf("expected DSN to enable clientFoundRows, got %q", dsn)
	}
}

func TestDSN_URLOverride(t *testing.T) {
	d := DatabaseConfig{dsnOverride: "user:pass@tcp(other:3306)/db?parseTime=true"}
	if got := d.DSN(); got != d.dsnOverride {
		t.Errorf("expected DATABASE_URL to win, got %q", got)
	}
}
