package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studyhub/internal/infra"
	"studyhub/internal/sqlinline"
)

const (
	ProviderKie    = "kie"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Providers lists every provider whose key may live in integration_tokens.
var Providers = []string{ProviderKie, ProviderGemini, ProviderOpenAI}

// Store reads and writes provider API keys in the integration_tokens table.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored. A
// database where cmd/apikey never created integration_tokens has no keys.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) || infra.IsUndefinedTable(err) {
			return "", nil
		}
		return "", fmt.Errorf("load %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// SetToken upserts the key for provider.
func (s *Store) SetToken(ctx context.Context, provider, key string) error {
	if !IsKnownProvider(provider) {
		return fmt.Errorf("unknown provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	return s.upsert(ctx, provider, key, map[string]any{"source": "apikey-cli"})
}

// EnsureSchema creates integration_tokens when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.sql.Exec(ctx, sqlinline.QEnsureIntegrationTokens)
	return err
}

// StoredToken describes a stored key without exposing it.
type StoredToken struct {
	Provider  string
	UpdatedAt time.Time
}

// List returns the providers that currently have a stored key.
func (s *Store) List(ctx context.Context) ([]StoredToken, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListIntegrationProviders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StoredToken
	for rows.Next() {
		var t StoredToken
		if err := rows.Scan(&t.Provider, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func IsKnownProvider(provider string) bool {
	for _, p := range Providers {
		if p == provider {
			return true
		}
	}
	return false
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}
