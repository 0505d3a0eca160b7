package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"studyhub/internal/infra"
	"studyhub/internal/infra/credentials"
)

var envKeys = map[string]string{
	credentials.ProviderKie:    "KIE_API_KEY",
	credentials.ProviderGemini: "GEMINI_API_KEY",
	credentials.ProviderOpenAI: "OPENAI_API_KEY",
}

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	provider string
	key      string
	list     bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("apikey", flag.ContinueOnError)
	fs.StringVar(&opts.provider, "provider", credentials.ProviderKie, "Provider to configure (kie, gemini or openai)")
	fs.StringVar(&opts.key, "key", "", "API key for the selected provider (falls back to the provider's environment variable)")
	fs.BoolVar(&opts.list, "list", false, "List providers that have a stored key")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.provider = strings.ToLower(strings.TrimSpace(opts.provider))
	if opts.provider == "" {
		opts.provider = credentials.ProviderKie
	}
	if !credentials.IsKnownProvider(opts.provider) {
		return options{}, fmt.Errorf("unsupported provider %q", opts.provider)
	}
	if opts.list {
		return opts, nil
	}

	opts.key = strings.TrimSpace(opts.key)
	if opts.key == "" {
		opts.key = strings.TrimSpace(os.Getenv(envKeys[opts.provider]))
	}
	if opts.key == "" {
		return options{}, fmt.Errorf("%s API key is required via -key or %s", strings.ToUpper(opts.provider), envKeys[opts.provider])
	}
	return opts, nil
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "apikey").Str("provider", opts.provider).Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, &logger))
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare integration_tokens: %w", err)
	}

	if opts.list {
		stored, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list stored keys: %w", err)
		}
		for _, t := range stored {
			fmt.Fprintf(out, "%-8s updated %s\n", t.Provider, t.UpdatedAt.Format(time.RFC3339))
		}
		return nil
	}

	if err := store.SetToken(ctx, opts.provider, opts.key); err != nil {
		return fmt.Errorf("failed to persist %s api key: %w", opts.provider, err)
	}
	fmt.Fprintf(out, "%s API key stored successfully\n", strings.ToUpper(opts.provider))
	return nil
}
