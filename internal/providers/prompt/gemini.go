package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studyhub/internal/domain"
)

type GeminiOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	HTTPClient  *http.Client
}

type GeminiSynthesizer struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
}

const (
	geminiDefaultTimeout = 30 * time.Second
	geminiDefaultModel   = "gemini-2.5-flash"
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature    float64 `json:"temperature,omitempty"`
	CandidateCount int     `json:"candidateCount,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewGeminiSynthesizer(opts GeminiOptions) (*GeminiSynthesizer, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", domain.ErrMissingAPIKey)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiSynthesizer{
		apiKey:      apiKey,
		model:       coalesce(opts.Model, geminiDefaultModel),
		baseURL:     strings.TrimRight(coalesce(opts.BaseURL, geminiDefaultBaseURL), "/"),
		temperature: opts.Temperature,
		client:      client,
	}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, instruction string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: instruction}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:    g.temperature,
			CandidateCount: 1,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: %w: http request: %w", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail geminiErrorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return "", fmt.Errorf("gemini: %w: %s (%s)", domain.ErrProviderFailure, detail.Error.Message, detail.Error.Status)
		}
		return "", fmt.Errorf("gemini: %w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	text := cleanModelText(g.extractText(out))
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func (g *GeminiSynthesizer) String() string {
	return geminiProviderName + ":" + g.model
}

func (g *GeminiSynthesizer) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
}

func (g *GeminiSynthesizer) extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}
	return ""
}

var _ Synthesizer = (*GeminiSynthesizer)(nil)
