package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/bfsi-ai/voice-agent/internal/api/router"
	"github.com/bfsi-ai/voice-agent/internal/config"
	"github.com/bfsi-ai/voice-agent/internal/conversation"
	"github.com/bfsi-ai/voice-agent/internal/dashboard"
	"github.com/bfsi-ai/voice-agent/internal/directory"
	"github.com/bfsi-ai/voice-agent/internal/http/handlers"
	"github.com/bfsi-ai/voice-agent/internal/observability/metrics"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := directory.NewInMemoryRepository(directory.FixtureCustomers())
	sessions, cleanup := newSessionStore(cfg, logger)
	defer cleanup()

	llm := newLLMClient(ctx, cfg, logger)
	voiceMetrics := metrics.NewVoiceMetrics(prometheus.DefaultRegisterer)

	composer := conversation.NewComposer(conversation.ComposerConfig{
		Handlers: conversation.NewHandlers(repo, cfg.CountryCode),
		LLM:      llm,
		Timeout:  cfg.RephraseTimeout,
		Logger:   logger,
		Metrics:  voiceMetrics,
	})

	voice := handlers.NewVoiceHandler(handlers.VoiceHandlerConfig{
		Sessions:           sessions,
		Composer:           composer,
		Mirror:             dashboard.NewClient(cfg.DashboardURL, logger),
		Logger:             logger,
		Metrics:            voiceMetrics,
		CountryCode:        cfg.CountryCode,
		AuthToken:          cfg.TwilioAuthToken,
		ValidateSignatures: cfg.ValidateSignatures,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(voice, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("voice webhook server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// newSessionStore picks the session backend. Memory is the default; Redis
// is opted into for multi-instance deployments.
func newSessionStore(cfg *config.Config, logger *logging.Logger) (conversation.SessionStore, func()) {
	if cfg.SessionStore != "redis" {
		return conversation.NewMemorySessionStore(cfg.SessionTTL), func() {}
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(opts)
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return conversation.NewRedisSessionStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }
}

// newLLMClient picks the rephrasing backend, OpenAI first, Gemini second.
// No key configured means handler messages are spoken verbatim.
func newLLMClient(ctx context.Context, cfg *config.Config, logger *logging.Logger) conversation.LLMClient {
	if cfg.OpenAIAPIKey != "" {
		client, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Error("failed to init openai client, rephrasing disabled", "error", err)
			return nil
		}
		logger.Info("rephrasing enabled", "provider", "openai", "model", cfg.OpenAIModel)
		return client
	}
	if cfg.GeminiAPIKey != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to init gemini client, rephrasing disabled", "error", err)
			return nil
		}
		logger.Info("rephrasing enabled", "provider", "gemini", "model", cfg.GeminiModel)
		return client
	}
	logger.Info("no LLM key configured, rephrasing disabled")
	return nil
}
