package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sdlcassist/internal/audit"
	"sdlcassist/internal/config"
	"sdlcassist/internal/dispatch"
	"sdlcassist/internal/llm"
	"sdlcassist/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("sdlcassist: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()

	store, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	recorder, err := audit.NewRecorder(store, logger)
	if err != nil {
		return err
	}
	defer recorder.Close()

	client, err := newLLMClient(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("init model client: %w", err)
	}
	defer client.Close()
	logger.Info("model client ready", zap.String("provider", client.Name()))

	d := dispatch.New(client, logger)
	handlers := server.NewHandlers(d, recorder, logger)
	mux := server.NewMux(handlers, recorder, cfg.APIKey, logger)
	srv := server.New(cfg.Port, mux, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "local") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(ctx context.Context, url string) (audit.Store, error) {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return audit.OpenPostgres(ctx, url)
	}
	return audit.OpenSQLite(strings.TrimPrefix(url, "sqlite://"))
}

func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	switch cfg.Provider {
	case "fake":
		return llm.NewFakeClient(), nil
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
