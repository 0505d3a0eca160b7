package domain

import "errors"

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrEmptyPrompt     = errors.New("empty generation prompt")
	ErrMissingAPIKey   = errors.New("api key is missing")
	ErrProviderFailure = errors.New("provider failure")
)
