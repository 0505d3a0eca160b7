package credentials

import (
	"context"
	"strings"
)

const (
	SourceEnv      = "env"
	SourceDatabase = "database"
	SourceNone     = "none"
)

// TokenSource is the read side of Store.
type TokenSource interface {
	Token(ctx context.Context, provider string) (string, error)
}

// Resolve picks the key for provider: the environment value wins, then the
// token source (nil is allowed). It also reports where the key came from.
func Resolve(ctx context.Context, src TokenSource, provider, envValue string) (string, string, error) {
	if key := strings.TrimSpace(envValue); key != "" {
		return key, SourceEnv, nil
	}
	if src == nil {
		return "", SourceNone, nil
	}
	key, err := src.Token(ctx, provider)
	if err != nil {
		return "", SourceNone, err
	}
	if key == "" {
		return "", SourceNone, nil
	}
	return key, SourceDatabase, nil
}
