package config

import (
	"testing"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.OpenFinance.APIURL != "https://api.pluggy.ai" {
		t.Errorf("unexpected default aggregator url: %s", cfg.OpenFinance.APIURL)
	}
	if cfg.OpenFinance.ClientID != "" {
		t.Errorf("aggregator credentials should default to empty, got %q", cfg.OpenFinance.ClientID)
	}
	if cfg.Worker.Count != 3 || cfg.Worker.QueueSize != 50 {
		t.Errorf("unexpected worker defaults: %+v", cfg.Worker)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should be disabled by default")
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_PORT", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid DB_PORT")
	}
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "caixa",
		Password: "secret",
		DBName:   "caixa",
		SSLMode:  "require",
	}

	want := "host=db.internal port=5433 user=caixa password=secret dbname=caixa sslmode=require"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := getBoolEnv("TEST_BOOL", false); got != tt.want {
			t.Errorf("getBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
