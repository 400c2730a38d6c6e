// Package handlers contains the telephony webhook handlers that drive the
// call flow: greeting, phone capture, query turns, and lifecycle telemetry.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bfsi-ai/voice-agent/internal/conversation"
	"github.com/bfsi-ai/voice-agent/internal/dashboard"
	"github.com/bfsi-ai/voice-agent/internal/observability/metrics"
	"github.com/bfsi-ai/voice-agent/internal/twilio"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

var voiceTracer = otel.Tracer("bfsi.internal.http.voice")

// Spoken prompts for each stage of the call.
const (
	welcomeSay       = "Welcome to your bank's AI voice assistant."
	gatherPhoneSay   = "Please say your 10 digit mobile number."
	noInputSay       = "I didn't catch that. Please call again. Goodbye!"
	phoneRetrySay    = "Sorry, I couldn't understand. Please say your mobile number clearly."
	gatherQuerySay   = "How can I help you today? Ask about balance, blocking a card, EMI, claim status, or contact update."
	noQuerySay       = "I didn't hear anything. Goodbye!"
	needPhoneSay     = "I need your verified number first. Transferring you back."
	sayPhoneAgainSay = "Please say your mobile number."
	anythingElseSay  = "Anything else?"
	goodbyeSay       = "Thank you for calling. Goodbye!"
)

// VoiceHandler drives the per-call state machine across the stateless
// webhook turns. State lives entirely in the session store.
type VoiceHandler struct {
	sessions    conversation.SessionStore
	composer    *conversation.Composer
	mirror      *dashboard.Client
	logger      *logging.Logger
	metrics     *metrics.VoiceMetrics
	countryCode string

	// authToken enables Twilio signature validation when non-empty and
	// validate is set; simulated callers run without it.
	authToken string
	validate  bool
}

// VoiceHandlerConfig configures the VoiceHandler.
type VoiceHandlerConfig struct {
	Sessions           conversation.SessionStore
	Composer           *conversation.Composer
	Mirror             *dashboard.Client
	Logger             *logging.Logger
	Metrics            *metrics.VoiceMetrics
	CountryCode        string
	AuthToken          string
	ValidateSignatures bool
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(cfg VoiceHandlerConfig) *VoiceHandler {
	if cfg.Sessions == nil {
		panic("handlers: session store cannot be nil")
	}
	if cfg.Composer == nil {
		panic("handlers: composer cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "+91"
	}
	return &VoiceHandler{
		sessions:    cfg.Sessions,
		composer:    cfg.Composer,
		mirror:      cfg.Mirror,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		countryCode: cfg.CountryCode,
		authToken:   cfg.AuthToken,
		validate:    cfg.ValidateSignatures,
	}
}

// HandleVoice handles POST /voice: the greeting stage. It creates a fresh
// session for the call and prompts for the caller's mobile number.
func (h *VoiceHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	ctx, span := voiceTracer.Start(r.Context(), "voice.greeting",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	if !h.authorized(w, r) {
		h.observe("voice", "unauthorized", start)
		return
	}

	callID := strings.TrimSpace(r.FormValue("CallSid"))
	if callID == "" {
		// Simulated callers get a synthetic identifier so they still
		// carry a session across turns.
		callID = "SIM-" + uuid.NewString()
	}
	span.SetAttributes(attribute.String("bfsi.call_sid", callID))

	if _, err := h.sessions.Create(ctx, callID); err != nil {
		h.logger.Error("failed to create call session", "error", err, "call_sid", callID)
	}

	vr := twilio.NewVoiceResponse().
		Say(welcomeSay).
		GatherSpeech("/get-phone", gatherPhoneSay, 6, "4").
		Say(noInputSay)
	h.writeTwiML(w, vr)

	h.logger.Info("call started", "call_sid", callID)
	h.observe("voice", "ok", start)
}

// HandleGetPhone handles POST /get-phone: the phone-capture stage. Fewer
// than ten digits in the transcript re-prompts without changing state; ten
// or more captures the last ten with the country code applied.
func (h *VoiceHandler) HandleGetPhone(w http.ResponseWriter, r *http.Request) {
	ctx, span := voiceTracer.Start(r.Context(), "voice.get_phone",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	if !h.authorized(w, r) {
		h.observe("get-phone", "unauthorized", start)
		return
	}

	callID := strings.TrimSpace(r.FormValue("CallSid"))
	transcript := r.FormValue("SpeechResult")
	span.SetAttributes(attribute.String("bfsi.call_sid", callID))

	digits := conversation.DigitsOnly(transcript)
	if len(digits) < 10 {
		vr := twilio.NewVoiceResponse().
			GatherSpeech("/get-phone", phoneRetrySay, 6, "4")
		h.writeTwiML(w, vr)
		h.observe("get-phone", "reprompt", start)
		return
	}

	// Leading carrier/country digits are discarded; the caller's number is
	// always the last ten.
	phone := h.countryCode + digits[len(digits)-10:]
	if err := h.sessions.Update(ctx, callID, func(s *conversation.CallSession) {
		s.Phone = phone
	}); err != nil {
		h.logger.Error("failed to store verified phone", "error", err, "call_sid", callID)
	}
	span.SetAttributes(attribute.String("bfsi.phone", maskPhone(phone)))

	vr := twilio.NewVoiceResponse().
		Say(fmt.Sprintf("Thanks. I have your number as %s.", phone)).
		GatherSpeech("/process", gatherQuerySay, 10, "5").
		Say(noQuerySay)
	h.writeTwiML(w, vr)

	h.logger.Info("phone captured", "call_sid", callID, "phone", maskPhone(phone))
	h.observe("get-phone", "ok", start)
}

// HandleProcess handles POST /process: one query turn. A session without a
// verified phone is routed back to phone capture instead of failing.
func (h *VoiceHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx, span := voiceTracer.Start(r.Context(), "voice.process",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	if !h.authorized(w, r) {
		h.observe("process", "unauthorized", start)
		return
	}

	callID := strings.TrimSpace(r.FormValue("CallSid"))
	userText := r.FormValue("SpeechResult")
	span.SetAttributes(attribute.String("bfsi.call_sid", callID))

	sess, err := h.sessions.Get(ctx, callID)
	if err != nil {
		h.logger.Error("session lookup failed", "error", err, "call_sid", callID)
	}
	if sess == nil || sess.Phone == "" {
		vr := twilio.NewVoiceResponse().
			Say(needPhoneSay).
			GatherSpeech("/get-phone", sayPhoneAgainSay, 6, "4")
		h.writeTwiML(w, vr)
		h.observe("process", "session_missing", start)
		return
	}

	answer := h.composer.GenerateResponse(ctx, sess.Phone, userText)

	if err := h.sessions.Update(ctx, callID, func(s *conversation.CallSession) {
		s.History = append(s.History, conversation.Turn{
			User:      userText,
			Assistant: answer,
			At:        time.Now().UTC(),
		})
	}); err != nil {
		h.logger.Error("failed to append turn", "error", err, "call_sid", callID)
	}

	h.mirror.Notify("user", userText)
	h.mirror.Notify("assistant", answer)

	vr := twilio.NewVoiceResponse().
		Say(answer).
		GatherSpeech("/process", anythingElseSay, 8, "4").
		Say(goodbyeSay)
	h.writeTwiML(w, vr)

	h.logger.Info("query turn completed", "call_sid", callID, "transcript_len", len(userText))
	h.observe("process", "ok", start)
}

// HandleCallStatus handles POST /call-status: lifecycle telemetry. Events
// are acknowledged immediately and never touch session state.
func (h *VoiceHandler) HandleCallStatus(w http.ResponseWriter, r *http.Request) {
	_, span := voiceTracer.Start(r.Context(), "voice.call_status",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	callID := strings.TrimSpace(r.FormValue("CallSid"))
	status := strings.ToLower(strings.TrimSpace(r.FormValue("CallStatus")))
	span.SetAttributes(
		attribute.String("bfsi.call_sid", callID),
		attribute.String("bfsi.call_status", status),
	)

	h.mirror.Notify("system", "Call status: "+status)
	h.logger.Info("call status received",
		"call_sid", callID,
		"status", status,
		"from", maskPhone(r.FormValue("From")),
		"duration", r.FormValue("CallDuration"),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "status": status})
	h.observe("call-status", "ok", start)
}

// HealthCheck returns a simple health check response.
func (h *VoiceHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// authorized validates the Twilio signature when configured. A failed parse
// or signature rejects the request before any state is touched.
func (h *VoiceHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	if !h.validate || h.authToken == "" {
		return true
	}
	if !twilio.ValidateSignature(r, h.authToken, buildAbsoluteURL(r)) {
		h.logger.Warn("invalid twilio signature", "path", r.URL.Path)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeTwiML renders the response; a render failure still speaks the canned
// goodbye so the caller is never left in silence.
func (h *VoiceHandler) writeTwiML(w http.ResponseWriter, vr *twilio.VoiceResponse) {
	doc, err := vr.Render()
	if err != nil {
		h.logger.Error("failed to render twiml", "error", err)
		doc, _ = twilio.NewVoiceResponse().Say(noInputSay).Render()
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *VoiceHandler) observe(stage, status string, start time.Time) {
	h.metrics.ObserveWebhook(stage, status)
	h.metrics.ObserveWebhookLatency(stage, time.Since(start).Seconds())
}

// maskPhone keeps the last four digits for logs.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "***" + phone[len(phone)-4:]
}

func buildAbsoluteURL(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	if r.URL.Scheme != "" {
		return r.URL.String()
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "https"
		if r.TLS == nil {
			scheme = "http"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return fmt.Sprintf("%s://%s%s", scheme, host, r.URL.RequestURI())
}
