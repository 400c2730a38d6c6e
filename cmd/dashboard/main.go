package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/bfsi-ai/voice-agent/internal/config"
	"github.com/bfsi-ai/voice-agent/internal/dashboard"
	"github.com/bfsi-ai/voice-agent/internal/http/middleware"
	"github.com/bfsi-ai/voice-agent/internal/twilio"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	port := os.Getenv("DASHBOARD_PORT")
	if port == "" {
		port = "8080"
	}

	var caller dashboard.CallStarter
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		client, err := twilio.NewClient(twilio.ClientConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			Logger:     logger,
		})
		if err != nil {
			logger.Error("failed to init twilio client, /start-call disabled", "error", err)
		} else {
			caller = client
		}
	} else {
		logger.Info("no twilio credentials, /start-call disabled")
	}

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		ChatLog:       dashboard.NewChatLog(cfg.DashboardChatCap),
		Caller:        caller,
		FromNumber:    cfg.TwilioFromNumber,
		CalleeNumber:  cfg.DemoCalleeNumber,
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("dashboard mirror starting", "port", port)
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
}
