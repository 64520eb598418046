package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/ankieta")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
	if len(cfg.SentinelValues) != 2 || cfg.SentinelValues[0] != "b/d" || cfg.SentinelValues[1] != "brak danych" {
		t.Errorf("SentinelValues = %v, want [b/d, brak danych]", cfg.SentinelValues)
	}
}

func TestLoad_SentinelOverride(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/ankieta")
	os.Setenv("SENTINEL_VALUES", "no data, n/a")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("SENTINEL_VALUES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.SentinelValues) != 2 || cfg.SentinelValues[0] != "no data" || cfg.SentinelValues[1] != "n/a" {
		t.Errorf("SentinelValues = %v, want [no data, n/a]", cfg.SentinelValues)
	}
}

func TestValidate_ProductionRequiresSigningKey(t *testing.T) {
	cfg := &Config{Env: "production", SMTPAddr: "mail:25"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SIGNING_KEY in production")
	}

	cfg.JWTSigningKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_SMTPAddrFormat(t *testing.T) {
	cfg := &Config{Env: "development", SMTPAddr: "mailhost"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for SMTP_ADDR without port")
	}
}
