package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpapi "studyhub/internal/http"
	"studyhub/internal/http/handlers"
	"studyhub/internal/infra"
	"studyhub/internal/infra/credentials"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	var tokens credentials.TokenSource
	if cfg.HasDatabase() {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		tokens = credentials.NewStore(infra.NewSQLRunner(dbpool, &logger))
	} else {
		logger.Info().Msg("DATABASE_URL not set, reading api keys from the environment only")
	}

	keyCtx, cancelKeys := context.WithTimeout(ctx, 10*time.Second)
	keys, err := resolveKeys(keyCtx, cfg, tokens, &logger)
	cancelKeys()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve api keys")
	}

	coord, promptProvider, err := buildCoordinator(cfg, keys, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build diagram coordinator")
	}
	logger.Info().
		Str("prompt_provider", promptProvider).
		Dur("poll_budget", coord.Budget()).
		Msg("diagram coordinator ready")

	app := handlers.NewApp(coord, &logger)
	app.PromptProvider = promptProvider

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:         &logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	server := infra.NewHTTPServer(cfg, router, &logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}

	// In-flight diagram requests may still be polling, so give them a full budget.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), coord.Budget()+10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
