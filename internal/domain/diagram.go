package domain

import "strings"

// DiagramRequest is the caller's input: a topic to illustrate.
type DiagramRequest struct {
	Topic string `json:"topic"`
}

// Validate ensures the topic carries content.
func (r DiagramRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrInvalidTopic
	}
	return nil
}

// DiagramResult is returned once a job has produced an image.
type DiagramResult struct {
	ImageURL string `json:"imageUrl"`
}
