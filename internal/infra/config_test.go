package infra

import (
	"testing"
	"time"
)

func clearDiagramEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "DATABASE_URL", "PROMPT_PROVIDER",
		"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "KIE_API_KEY", "KIE_BASE_URL",
		"DIAGRAM_POLL_INTERVAL_SECONDS", "DIAGRAM_MAX_ATTEMPTS",
		"HTTP_WRITE_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearDiagramEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q", cfg.Port)
	}
	if cfg.HasDatabase() {
		t.Fatal("expected no database without DATABASE_URL")
	}
	if cfg.PromptProvider != PromptProviderGemini {
		t.Fatalf("PromptProvider mismatch: got %q", cfg.PromptProvider)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("GeminiModel mismatch: got %q", cfg.GeminiModel)
	}
	if cfg.KieBaseURL != "https://api.kie.ai" {
		t.Fatalf("KieBaseURL mismatch: got %q", cfg.KieBaseURL)
	}
	if cfg.DiagramPollInterval != 2*time.Second || cfg.DiagramMaxAttempts != 60 {
		t.Fatalf("poll budget mismatch: %s x %d", cfg.DiagramPollInterval, cfg.DiagramMaxAttempts)
	}
	if cfg.HTTPWriteTimeout != 180*time.Second {
		t.Fatalf("HTTPWriteTimeout mismatch: got %s", cfg.HTTPWriteTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("AppEnv mismatch: got %q", cfg.AppEnv)
	}
}

func TestLoadConfigNormalizesProvider(t *testing.T) {
	clearDiagramEnv(t)
	t.Setenv("PROMPT_PROVIDER", " OpenAI ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.PromptProvider != PromptProviderOpenAI {
		t.Fatalf("PromptProvider mismatch: got %q", cfg.PromptProvider)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	clearDiagramEnv(t)
	t.Setenv("PROMPT_PROVIDER", "qwen")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoadConfigRejectsNonPositiveAttempts(t *testing.T) {
	clearDiagramEnv(t)
	t.Setenv("DIAGRAM_MAX_ATTEMPTS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}

func TestLoadConfigStretchesWriteTimeoutPastPollBudget(t *testing.T) {
	clearDiagramEnv(t)
	t.Setenv("DIAGRAM_POLL_INTERVAL_SECONDS", "3")
	t.Setenv("DIAGRAM_MAX_ATTEMPTS", "100")
	t.Setenv("HTTP_WRITE_TIMEOUT_SECONDS", "60")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if want := 330 * time.Second; cfg.HTTPWriteTimeout != want {
		t.Fatalf("HTTPWriteTimeout mismatch: got %s want %s", cfg.HTTPWriteTimeout, want)
	}
}

func TestLoadConfigSplitsCORSOrigins(t *testing.T) {
	clearDiagramEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example ")
	t.Setenv("DATABASE_URL", "postgres://example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
	if !cfg.HasDatabase() {
		t.Fatal("expected HasDatabase with DATABASE_URL set")
	}
}
