package diagram

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrPromptSynthesis marks failures of the text-generation step. The cause is
// wrapped alongside it.
var ErrPromptSynthesis = errors.New("diagram: prompt synthesis failed")

// SubmissionError reports that the image service rejected the job or did not
// hand back a task id.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return "diagram: image submission failed"
	}
	return "diagram: image submission failed: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// GenerationError reports that the service accepted the job and later marked it failed.
type GenerationError struct {
	TaskID  string
	Message string
}

func (e *GenerationError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "Unknown error"
	}
	return "diagram: image generation failed: " + msg
}

// TimeoutError reports that the polling budget ran out before the job settled.
type TimeoutError struct {
	TaskID   string
	Attempts int
	Waited   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("diagram: image generation timed out after %d seconds", int(e.Waited/time.Second))
}
