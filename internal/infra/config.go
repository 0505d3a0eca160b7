package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PromptProviderGemini = "gemini"
	PromptProviderOpenAI = "openai"
	PromptProviderStatic = "static"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	PromptProvider string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	OpenAIOrg      string

	KieAPIKey  string
	KieBaseURL string

	DiagramPollInterval time.Duration
	DiagramMaxAttempts  int

	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// DATABASE_URL is optional; without it provider keys must come from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		PromptProvider:      normalizeProvider(getEnv("PROMPT_PROVIDER", PromptProviderGemini)),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:       getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:           strings.TrimSpace(os.Getenv("OPENAI_ORG")),
		KieAPIKey:           strings.TrimSpace(os.Getenv("KIE_API_KEY")),
		KieBaseURL:          getEnv("KIE_BASE_URL", "https://api.kie.ai"),
		DiagramPollInterval: time.Second * time.Duration(getEnvInt("DIAGRAM_POLL_INTERVAL_SECONDS", 2)),
		DiagramMaxAttempts:  getEnvInt("DIAGRAM_MAX_ATTEMPTS", 60),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	switch cfg.PromptProvider {
	case PromptProviderGemini, PromptProviderOpenAI, PromptProviderStatic:
	default:
		return nil, fmt.Errorf("PROMPT_PROVIDER %q is not supported", cfg.PromptProvider)
	}

	if cfg.DiagramPollInterval <= 0 {
		return nil, fmt.Errorf("DIAGRAM_POLL_INTERVAL_SECONDS must be positive")
	}
	if cfg.DiagramMaxAttempts <= 0 {
		return nil, fmt.Errorf("DIAGRAM_MAX_ATTEMPTS must be positive")
	}

	// The write timeout has to outlive a full polling budget or clients see a reset connection.
	if budget := time.Duration(cfg.DiagramMaxAttempts) * cfg.DiagramPollInterval; cfg.HTTPWriteTimeout <= budget {
		cfg.HTTPWriteTimeout = budget + 30*time.Second
	}

	return cfg, nil
}

// HasDatabase reports whether a database connection string was supplied.
func (c *Config) HasDatabase() bool {
	return c != nil && c.DatabaseURL != ""
}

func normalizeProvider(v string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(v))
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}
