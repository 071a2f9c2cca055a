package infra

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
	t.Setenv("WEBHOOK_URL", "https://automation.example.com/webhook/hr")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.AppEnv != "development" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.WebhookTimeout != 15*time.Second {
		t.Fatalf("webhook timeout: %v", cfg.WebhookTimeout)
	}
	if cfg.SupabaseURL != "https://proj.supabase.co" {
		t.Fatalf("trailing slash must be trimmed: %q", cfg.SupabaseURL)
	}
	if cfg.AuthURL() != "https://proj.supabase.co/auth/v1" {
		t.Fatalf("auth url: %q", cfg.AuthURL())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("origins: %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	keys := []string{"SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_JWT_SECRET", "WEBHOOK_URL"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, "")
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error when %s is missing", key)
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEBHOOK_TIMEOUT_SECONDS", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://hr.example.com, https://staging.hr.example.com")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WebhookTimeout != 5*time.Second {
		t.Fatalf("timeout: %v", cfg.WebhookTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://staging.hr.example.com" {
		t.Fatalf("origins: %#v", cfg.AllowedOrigins)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("rate limit: %d", cfg.RateLimitPerMin)
	}
}
