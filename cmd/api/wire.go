package main

import (
	"context"
	"fmt"

	"studyhub/internal/diagram"
	"studyhub/internal/infra"
	"studyhub/internal/infra/credentials"
	"studyhub/internal/providers/kie"
	"studyhub/internal/providers/prompt"
)

// providerKeys holds the resolved API keys, whichever source they came from.
type providerKeys struct {
	Kie    string
	Gemini string
	OpenAI string
}

// resolveKeys reads each provider key from the environment first and the
// integration token store second. src may be nil when no database is configured.
func resolveKeys(ctx context.Context, cfg *infra.Config, src credentials.TokenSource, logger *infra.Logger) (providerKeys, error) {
	var keys providerKeys
	targets := []struct {
		provider string
		env      string
		dst      *string
	}{
		{credentials.ProviderKie, cfg.KieAPIKey, &keys.Kie},
		{credentials.ProviderGemini, cfg.GeminiAPIKey, &keys.Gemini},
		{credentials.ProviderOpenAI, cfg.OpenAIAPIKey, &keys.OpenAI},
	}
	for _, target := range targets {
		key, source, err := credentials.Resolve(ctx, src, target.provider, target.env)
		if err != nil {
			return providerKeys{}, fmt.Errorf("resolve %s key: %w", target.provider, err)
		}
		*target.dst = key
		logger.Debug().Str("provider", target.provider).Str("source", source).Msg("api key resolved")
	}
	return keys, nil
}

// buildSynthesizer honours PROMPT_PROVIDER and drops to the static
// synthesizer when the chosen provider has no key.
func buildSynthesizer(cfg *infra.Config, keys providerKeys, logger *infra.Logger) (prompt.Synthesizer, error) {
	switch cfg.PromptProvider {
	case infra.PromptProviderGemini:
		if keys.Gemini != "" {
			return prompt.NewGeminiSynthesizer(prompt.GeminiOptions{
				APIKey:  keys.Gemini,
				Model:   cfg.GeminiModel,
				BaseURL: cfg.GeminiBaseURL,
			})
		}
	case infra.PromptProviderOpenAI:
		if keys.OpenAI != "" {
			return prompt.NewOpenAISynthesizer(prompt.OpenAIOptions{
				APIKey:       keys.OpenAI,
				Model:        cfg.OpenAIModel,
				BaseURL:      cfg.OpenAIBaseURL,
				Organization: cfg.OpenAIOrg,
				MaxRetries:   2,
			})
		}
	case infra.PromptProviderStatic:
		return prompt.NewStaticSynthesizer(), nil
	default:
		return nil, fmt.Errorf("unsupported prompt provider %q", cfg.PromptProvider)
	}
	logger.Warn().
		Str("provider", cfg.PromptProvider).
		Msg("no api key for prompt provider, using static prompts")
	return prompt.NewStaticSynthesizer(), nil
}

func buildCoordinator(cfg *infra.Config, keys providerKeys, logger *infra.Logger) (*diagram.Coordinator, string, error) {
	if keys.Kie == "" {
		return nil, "", kie.ErrMissingAPIKey
	}
	synth, err := buildSynthesizer(cfg, keys, logger)
	if err != nil {
		return nil, "", err
	}
	images := kie.NewClient(kie.Options{
		APIKey:  keys.Kie,
		BaseURL: cfg.KieBaseURL,
		Logger:  logger,
	})
	coord, err := diagram.NewCoordinator(diagram.Options{
		Synthesizer:  synth,
		Images:       images,
		Logger:       logger,
		PollInterval: cfg.DiagramPollInterval,
		MaxAttempts:  cfg.DiagramMaxAttempts,
	})
	if err != nil {
		return nil, "", err
	}
	return coord, fmt.Sprint(synth), nil
}
