package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AppName != "patient-portal" {
		t.Errorf("expected default app name, got %s", cfg.AppName)
	}
	if cfg.SessionCookie != "portal_session" {
		t.Errorf("expected default session cookie, got %s", cfg.SessionCookie)
	}
	if cfg.DefaultLocale != "en" {
		t.Errorf("expected default locale en, got %s", cfg.DefaultLocale)
	}
	if cfg.NEHRTimeout != 10*time.Second {
		t.Errorf("expected default NEHR timeout 10s, got %s", cfg.NEHRTimeout)
	}
	if !cfg.IsDev() {
		t.Errorf("expected development by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate in development: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_LOCALE", " SI ")
	t.Setenv("NEHR_TIMEOUT", "3s")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Addr())
	}
	if cfg.DefaultLocale != "si" {
		t.Errorf("expected normalized locale si, got %q", cfg.DefaultLocale)
	}
	if cfg.NEHRTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.NEHRTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	c := &Config{Env: "production", Timezone: "Asia/Colombo"}
	if err := c.Validate(); err == nil {
		t.Error("expected error when SESSION_SECRET is missing outside development")
	}

	c.SessionSecret = "s3cret"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	c.NEHRBaseURL = "https://nehr.example.lk"
	if err := c.Validate(); err == nil {
		t.Error("expected error when NEHR_API_KEY is missing")
	}
	c.NEHRAPIKey = "k"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	c.SeedFile = "fixtures/demo.yaml"
	if err := c.Validate(); err == nil {
		t.Error("expected error when SEED_FILE is used with the NEHR repo")
	}
	c.NEHRBaseURL, c.NEHRAPIKey = "", ""
	if err := c.Validate(); err != nil {
		t.Errorf("SEED_FILE should be allowed without NEHR: %v", err)
	}

	c.Timezone = "Mars/Olympus"
	if err := c.Validate(); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
