package domain

import "strings"

// JobStatus enumerates the lifecycle states reported by the image service.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Success flag values reported alongside the status string.
const (
	SuccessFlagGenerating = 0
	SuccessFlagSucceeded  = 1
	SuccessFlagFailed     = 2
)

// Job is a read-only view of one remote image-generation task. The service
// owns its state; callers only observe it through polling.
type Job struct {
	TaskID       string
	Status       JobStatus
	RawStatus    string
	SuccessFlag  int
	Progress     string
	ResultURLs   []string
	ErrorMessage string
	ErrorCode    string
}

// NormalizeJobStatus maps the raw service status onto the three states the
// coordinator cares about.
func NormalizeJobStatus(raw string, successFlag int) JobStatus {
	status := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case status == string(JobStatusSuccess) || successFlag == SuccessFlagSucceeded:
		return JobStatusSuccess
	case status == string(JobStatusFailed) || strings.HasSuffix(status, "_FAILED") || successFlag == SuccessFlagFailed:
		return JobStatusFailed
	default:
		return JobStatusPending
	}
}

// FirstResultURL returns the first non-empty result URL, if any.
func (j Job) FirstResultURL() string {
	for _, u := range j.ResultURLs {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}

// FailureReason picks the most descriptive failure text reported for the job.
func (j Job) FailureReason() string {
	if msg := strings.TrimSpace(j.ErrorMessage); msg != "" {
		return msg
	}
	if code := strings.TrimSpace(j.ErrorCode); code != "" {
		return code
	}
	return "Unknown error"
}
