package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
	if !cfg.AllowAnyOrigin() {
		t.Fatalf("expected wildcard origin default, got %v", cfg.AllowedOrigins)
	}
	if cfg.TranscriptFile != "" {
		t.Fatalf("expected transcript disabled by default, got %q", cfg.TranscriptFile)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ALLOWED_ORIGINS", "https://chat.example.com,https://admin.example.com")
	t.Setenv("TRANSCRIPT_FILE", "/tmp/sessions.log")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9999" {
		t.Fatalf("expected port 9999, got %q", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://chat.example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.AllowAnyOrigin() {
		t.Fatal("explicit origin list should not allow any origin")
	}
	if cfg.TranscriptFile != "/tmp/sessions.log" {
		t.Fatalf("unexpected transcript file %q", cfg.TranscriptFile)
	}
}
