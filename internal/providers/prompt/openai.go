package prompt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"studyhub/internal/domain"
)

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	MaxRetries   int
}

// OpenAISynthesizer uses the openai-go SDK (chat completions).
type OpenAISynthesizer struct {
	model  string
	client openai.Client
}

const (
	openAIDefaultTimeout = 30 * time.Second
	defaultOpenAIModel   = "gpt-4o-mini"
)

const openAISystemPrompt = "You write prompts for an image generation model. Reply with the prompt text only."

func NewOpenAISynthesizer(opts OpenAIOptions) (*OpenAISynthesizer, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", domain.ErrMissingAPIKey)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: openAIDefaultTimeout}
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if org := strings.TrimSpace(opts.Organization); org != "" {
		reqOpts = append(reqOpts, option.WithOrganization(org))
	}
	return &OpenAISynthesizer{
		model:  coalesce(opts.Model, defaultOpenAIModel),
		client: openai.NewClient(reqOpts...),
	}, nil
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, instruction string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage(instruction),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w: chat completion: %w", domain.ErrProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	text := cleanModelText(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty response")
	}
	return text, nil
}

func (o *OpenAISynthesizer) String() string {
	return openAIProviderName + ":" + o.model
}

var _ Synthesizer = (*OpenAISynthesizer)(nil)
