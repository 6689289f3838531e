package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "test")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PIPELINE_EXTRACTION_TIMEOUT", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("Database.Port = %q, want default 5432", cfg.Database.Port)
	}
	if cfg.Pipeline.ExtractionTimeout != 90*time.Second {
		t.Errorf("ExtractionTimeout = %v, want 90s", cfg.Pipeline.ExtractionTimeout)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if !cfg.Clerk.MultiTenant {
		t.Error("Clerk.MultiTenant should default to true")
	}
}

func TestValidate_ProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Environment: "production"},
		Retry:    RetryConfig{MaxAttempts: 3},
		Pipeline: PipelineConfig{ExtractionTimeout: time.Minute},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing auth settings")
	}

	cfg.Auth.Secret = "s"
	cfg.Clerk.WebhookSecret = "whsec_x"
	cfg.Claude.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "h", Port: "1", User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	want := "host=h port=1 user=u password=p dbname=n sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("GetDatabaseDSN() = %q, want %q", got, want)
	}
}
