package kie

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
	"studyhub/internal/infra"
)

var (
	// ErrMissingAPIKey indicates that the client was configured without credentials.
	ErrMissingAPIKey = fmt.Errorf("kie: %w", domain.ErrMissingAPIKey)
	// ErrMissingTaskID is returned when an accepted submission carries no task id.
	ErrMissingTaskID = errors.New("kie: no taskId returned")
)

const (
	defaultBaseURL = "https://api.kie.ai"
	generatePath   = "/api/v1/gpt4o-image/generate"
	recordInfoPath = "/api/v1/gpt4o-image/record-info"

	defaultSize          = "1:1"
	defaultVariants      = 1
	defaultFallbackModel = "FLUX_MAX"
	responseCodeOK       = 200
)

// Options configures the Kie.ai image client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client talks to the Kie.ai 4o-image task API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// APIError carries a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("kie: http %d", e.StatusCode)
	}
	return fmt.Sprintf("kie: http %d: %s", e.StatusCode, body)
}

// Record is one decoded record-info response. Job is nil when the service
// answered without a data block or with a non-200 body code.
type Record struct {
	Code    int
	Message string
	Job     *domain.Job
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	IsEnhance      bool   `json:"isEnhance"`
	NVariants      int    `json:"nVariants"`
	EnableFallback bool   `json:"enableFallback"`
	FallbackModel  string `json:"fallbackModel"`
}

type generateResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type recordInfoResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data *recordInfoData `json:"data"`
}

type recordInfoData struct {
	TaskID      string     `json:"taskId"`
	Status      string     `json:"status"`
	SuccessFlag flexInt    `json:"successFlag"`
	Progress    flexString `json:"progress"`
	Response    *struct {
		ResultURLs []string `json:"resultUrls"`
	} `json:"response"`
	ErrorMessage string     `json:"errorMessage"`
	ErrorCode    flexString `json:"errorCode"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// Submit queues a single square image for the prompt and returns the task id.
func (c *Client) Submit(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	payload := generateRequest{
		Prompt:         prompt,
		Size:           defaultSize,
		IsEnhance:      true,
		NVariants:      defaultVariants,
		EnableFallback: true,
		FallbackModel:  defaultFallbackModel,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("kie: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("kie: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &APIError{StatusCode: status, Body: string(raw)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("kie: decode response: %w", err)
	}
	c.logger.Debug().
		Int("code", decoded.Code).
		Str("msg", decoded.Msg).
		Msg("kie: generate response")
	if decoded.Data == nil || strings.TrimSpace(decoded.Data.TaskID) == "" {
		if msg := strings.TrimSpace(decoded.Msg); msg != "" {
			return "", fmt.Errorf("%w: %s (%d)", ErrMissingTaskID, msg, decoded.Code)
		}
		return "", ErrMissingTaskID
	}
	return strings.TrimSpace(decoded.Data.TaskID), nil
}

// RecordInfo fetches the current state of a task.
func (c *Client) RecordInfo(ctx context.Context, taskID string) (*Record, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	query := url.Values{}
	query.Set("taskId", taskID)
	endpoint := c.baseURL + recordInfoPath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("kie: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Body: string(raw)}
	}

	var decoded recordInfoResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("kie: decode response: %w", err)
	}
	record := &Record{Code: decoded.Code, Message: decoded.Msg}
	if decoded.Code != responseCodeOK || decoded.Data == nil {
		return record, nil
	}
	record.Job = decoded.Data.toJob(taskID)
	return record, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("kie: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("kie: read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func (d *recordInfoData) toJob(requestedID string) *domain.Job {
	taskID := strings.TrimSpace(d.TaskID)
	if taskID == "" {
		taskID = requestedID
	}
	job := &domain.Job{
		TaskID:       taskID,
		Status:       domain.NormalizeJobStatus(d.Status, int(d.SuccessFlag)),
		RawStatus:    strings.TrimSpace(d.Status),
		SuccessFlag:  int(d.SuccessFlag),
		Progress:     string(d.Progress),
		ErrorMessage: strings.TrimSpace(d.ErrorMessage),
		ErrorCode:    strings.TrimSpace(string(d.ErrorCode)),
	}
	if d.Response != nil {
		job.ResultURLs = append([]string(nil), d.Response.ResultURLs...)
	}
	return job
}
