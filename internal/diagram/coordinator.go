package diagram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"studyhub/internal/domain"
	"studyhub/internal/infra"
	"studyhub/internal/providers/kie"
	"studyhub/internal/providers/prompt"
)

const (
	DefaultPollInterval          = 2 * time.Second
	DefaultMaxAttempts           = 60
	DefaultStaleSuccessThreshold = 5
)

// ImageService is the subset of the image-generation client the coordinator needs.
type ImageService interface {
	Submit(ctx context.Context, prompt string) (string, error)
	RecordInfo(ctx context.Context, taskID string) (*kie.Record, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options wires the coordinator's collaborators and polling budget.
type Options struct {
	Synthesizer           prompt.Synthesizer
	Images                ImageService
	Logger                *infra.Logger
	PollInterval          time.Duration
	MaxAttempts           int
	StaleSuccessThreshold int
	Sleep                 SleepFunc
}

// Coordinator turns a topic into a diagram image: it synthesizes a prompt,
// submits one image job and polls it until it settles or the budget runs out.
// It holds no per-request state, so one instance serves concurrent callers.
type Coordinator struct {
	synthesizer  prompt.Synthesizer
	images       ImageService
	logger       *infra.Logger
	pollInterval time.Duration
	maxAttempts  int
	staleAfter   int
	sleep        SleepFunc
}

func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.Synthesizer == nil {
		return nil, errors.New("diagram: synthesizer is required")
	}
	if opts.Images == nil {
		return nil, errors.New("diagram: image service is required")
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	staleAfter := opts.StaleSuccessThreshold
	if staleAfter <= 0 {
		staleAfter = DefaultStaleSuccessThreshold
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Coordinator{
		synthesizer:  opts.Synthesizer,
		images:       opts.Images,
		logger:       logger,
		pollInterval: interval,
		maxAttempts:  attempts,
		staleAfter:   staleAfter,
		sleep:        sleep,
	}, nil
}

// Budget is the longest the coordinator will wait on a single job.
func (c *Coordinator) Budget() time.Duration {
	return time.Duration(c.maxAttempts) * c.pollInterval
}

// Generate runs the whole flow for one request. Failures are terminal; the
// caller decides whether to start over.
func (c *Coordinator) Generate(ctx context.Context, req domain.DiagramRequest) (domain.DiagramResult, error) {
	if err := req.Validate(); err != nil {
		return domain.DiagramResult{}, err
	}
	topic := strings.TrimSpace(req.Topic)
	log := c.logger.With().Str("topic", topic).Logger()

	imagePrompt, err := c.synthesize(ctx, topic)
	if err != nil {
		log.Error().Err(err).Msg("diagram: prompt synthesis failed")
		return domain.DiagramResult{}, err
	}
	log.Info().Str("prompt", imagePrompt).Msg("diagram: generated prompt")

	taskID, err := c.images.Submit(ctx, imagePrompt)
	if err != nil {
		log.Error().Err(err).Msg("diagram: submission failed")
		return domain.DiagramResult{}, &SubmissionError{Err: err}
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		log.Error().Msg("diagram: submission returned empty task id")
		return domain.DiagramResult{}, &SubmissionError{Err: kie.ErrMissingTaskID}
	}
	log = log.With().Str("task_id", taskID).Logger()
	log.Info().Msg("diagram: task submitted")

	imageURL, err := c.poll(ctx, log, taskID)
	if err != nil {
		log.Error().Err(err).Msg("diagram: generation did not complete")
		return domain.DiagramResult{}, err
	}
	log.Info().Str("image_url", imageURL).Msg("diagram: generation complete")
	return domain.DiagramResult{ImageURL: imageURL}, nil
}

func (c *Coordinator) synthesize(ctx context.Context, topic string) (string, error) {
	text, err := c.synthesizer.Synthesize(ctx, BuildInstruction(topic))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPromptSynthesis, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %w", ErrPromptSynthesis, domain.ErrEmptyPrompt)
	}
	return text, nil
}

func (c *Coordinator) poll(ctx context.Context, log zerolog.Logger, taskID string) (string, error) {
	staleSuccess := 0
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return "", fmt.Errorf("diagram: polling task %s: %w", taskID, err)
		}
		log.Debug().Int("attempt", attempt).Int("max_attempts", c.maxAttempts).Msg("diagram: polling task")

		record, err := c.images.RecordInfo(ctx, taskID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("diagram: polling task %s: %w", taskID, ctxErr)
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("diagram: poll request failed")
			continue
		}
		if record == nil || record.Job == nil {
			event := log.Debug().Int("attempt", attempt)
			if record != nil {
				event = event.Int("code", record.Code).Str("msg", record.Message)
			}
			event.Msg("diagram: task record not available yet")
			continue
		}

		job := record.Job
		log.Debug().
			Int("attempt", attempt).
			Str("status", job.RawStatus).
			Int("success_flag", job.SuccessFlag).
			Str("progress", job.Progress).
			Msg("diagram: task status")

		switch job.Status {
		case domain.JobStatusSuccess:
			if imageURL := job.FirstResultURL(); imageURL != "" {
				return imageURL, nil
			}
			staleSuccess++
			if staleSuccess%c.staleAfter == 0 {
				log.Warn().
					Int("attempt", attempt).
					Int("consecutive", staleSuccess).
					Msg("diagram: service reports success without result urls")
			}
			continue
		case domain.JobStatusFailed:
			return "", &GenerationError{TaskID: taskID, Message: job.FailureReason()}
		}
		staleSuccess = 0
		log.Debug().Str("progress", coalesceProgress(job.Progress)).Msg("diagram: still processing")
	}
	return "", &TimeoutError{
		TaskID:   taskID,
		Attempts: c.maxAttempts,
		Waited:   c.Budget(),
	}
}

func coalesceProgress(progress string) string {
	if p := strings.TrimSpace(progress); p != "" {
		return p
	}
	return "unknown"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
