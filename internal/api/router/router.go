// Package router wires the HTTP routes for the voice webhook service.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bfsi-ai/voice-agent/internal/http/handlers"
	"github.com/bfsi-ai/voice-agent/internal/http/middleware"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

// New creates the router with all voice webhook routes registered.
func New(voice *handlers.VoiceHandler, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health", voice.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/voice", voice.HandleVoice)
	r.Post("/get-phone", voice.HandleGetPhone)
	r.Post("/process", voice.HandleProcess)
	r.Post("/call-status", voice.HandleCallStatus)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}
