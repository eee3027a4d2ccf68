package config

import (
	"reflect"
	"testing"
	"time"
)

// TestParseCSVEnv проверяет разбор списка origin из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://Bank.example.com, ,http://localhost:3000 ")

	got := parseCSVEnv("CORS_ALLOWED_ORIGINS")
	want := []string{"https://bank.example.com", "http://localhost:3000"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseBoolAndFloatEnv проверяет разбор логических и дробных значений.
func TestParseBoolAndFloatEnv(t *testing.T) {
	t.Setenv("FLAG", "false")
	t.Setenv("RATIO", "0.25")
	t.Setenv("BROKEN", "maybe")

	flag, err := parseBoolEnv("FLAG", true)
	if err != nil || flag {
		t.Fatalf("expected false, got %v (err=%v)", flag, err)
	}

	ratio, err := parseFloatEnv("RATIO", 1)
	if err != nil || ratio != 0.25 {
		t.Fatalf("expected 0.25, got %v (err=%v)", ratio, err)
	}

	if _, err := parseBoolEnv("BROKEN", true); err == nil {
		t.Fatal("expected error for invalid boolean")
	}
	if _, err := parseFloatEnv("BROKEN", 1); err == nil {
		t.Fatal("expected error for invalid number")
	}
}

// TestLoadDefaults проверяет значения по умолчанию без переменных окружения.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Driver != DriverSQLite || cfg.Database.SQLitePath != "ai_agent.db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.AI.Timeout != 10*time.Second || cfg.AI.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected ai config: %+v", cfg.AI)
	}
	if cfg.Upstream.Timeout != 2*time.Second || cfg.Upstream.RecentLimit != 20 || !cfg.Upstream.SyntheticFallback {
		t.Fatalf("unexpected upstream config: %+v", cfg.Upstream)
	}
	if cfg.Upstream.BalanceURL != "http://balancereader:8080" || cfg.Upstream.DemoUserID != "demo_user" {
		t.Fatalf("unexpected upstream addresses: %+v", cfg.Upstream)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"*"}) {
		t.Fatalf("expected wildcard origin, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Version != "1.0.0" {
		t.Fatalf("expected default version, got %s", cfg.Version)
	}
}

// TestLoadRejectsUnknownProvider проверяет валидацию провайдера модели.
func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("AI_PROVIDER", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

// TestLoadRejectsUnknownDriver проверяет валидацию драйвера базы данных.
func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
