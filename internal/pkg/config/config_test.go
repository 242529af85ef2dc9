package config

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl default: %v", cfg.TokenTTL)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("idle timeout default: %v", cfg.SessionIdleTimeout)
	}
	if cfg.CredentialSource != "demo" || cfg.AuditSink != "log" || cfg.AuditWorkers != 4 {
		t.Fatalf("unexpected source defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "insurance_portal" {
		t.Fatalf("mongo database default: %q", cfg.Mongo.Database)
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(context.Background())
	if !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("SESSION_IDLE_TIMEOUT", "45m")
	t.Setenv("CREDENTIAL_SOURCE", "mongo")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionIdleTimeout != 45*time.Minute {
		t.Fatalf("idle timeout override: %v", cfg.SessionIdleTimeout)
	}
	if cfg.CredentialSource != "mongo" {
		t.Fatalf("credential source override: %q", cfg.CredentialSource)
	}
}
