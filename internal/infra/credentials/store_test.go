package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studyhub/internal/sqlinline"
)

type stubExecutor struct {
	token string
	err   error
	row   struct {
		query string
		args  []any
	}
	exec struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.row.query = query
	s.row.args = args
	return stubRow{token: s.token, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestTokenTrimsStoredKey(t *testing.T) {
	exec := &stubExecutor{token: " kie-abc123 "}
	store := NewStore(exec)
	key, err := store.Token(context.Background(), ProviderKie)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "kie-abc123" {
		t.Fatalf("expected kie-abc123, got %q", key)
	}
	if exec.row.query != sqlinline.QSelectIntegrationToken {
		t.Fatalf("unexpected query %q", exec.row.query)
	}
	if len(exec.row.args) != 1 || exec.row.args[0] != ProviderKie {
		t.Fatalf("expected provider arg %q, got %#v", ProviderKie, exec.row.args)
	}
}

func TestTokenWithoutStoredKey(t *testing.T) {
	cases := map[string]error{
		"no rows":       pgx.ErrNoRows,
		"missing table": &pgconn.PgError{Code: "42P01", Message: `relation "integration_tokens" does not exist`},
	}
	for name, dbErr := range cases {
		store := NewStore(&stubExecutor{err: dbErr})
		for _, provider := range Providers {
			key, err := store.Token(context.Background(), provider)
			if err != nil {
				t.Fatalf("%s/%s: Token error: %v", name, provider, err)
			}
			if key != "" {
				t.Fatalf("%s/%s: expected empty key, got %q", name, provider, key)
			}
		}
	}
}

func TestTokenWrapsDatabaseErrors(t *testing.T) {
	boom := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	store := NewStore(&stubExecutor{err: boom})
	_, err := store.Token(context.Background(), ProviderGemini)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), ProviderGemini) {
		t.Fatalf("expected provider in error, got %q", err.Error())
	}
}

func TestSetToken(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetToken(context.Background(), ProviderKie, " secret "); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if exec.exec.query != sqlinline.QUpsertIntegrationToken {
		t.Fatalf("unexpected query %q", exec.exec.query)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, ok := exec.exec.args[0].(string); !ok || v != ProviderKie {
		t.Fatalf("expected kie provider, got %T %v", exec.exec.args[0], exec.exec.args[0])
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
}

func TestSetTokenRejectsEmptyKey(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetToken(context.Background(), ProviderGemini, " "); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSetTokenRejectsUnknownProvider(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetToken(context.Background(), "qwen", "secret"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if exec.exec.query != "" {
		t.Fatal("unknown provider should not reach the database")
	}
}

func TestEnsureSchema(t *testing.T) {
	exec := &stubExecutor{}
	if err := NewStore(exec).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if exec.exec.query != sqlinline.QEnsureIntegrationTokens {
		t.Fatalf("unexpected query %q", exec.exec.query)
	}
}
