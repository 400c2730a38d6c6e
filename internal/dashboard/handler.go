package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/bfsi-ai/voice-agent/internal/twilio"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

// DemoData is the simplified customer snapshot the dashboard displays.
type DemoData struct {
	Name        string  `json:"name"`
	Balance     float64 `json:"balance"`
	CardStatus  string  `json:"card_status"`
	EMIDue      string  `json:"emi_due"`
	ClaimStatus string  `json:"claim_status"`
}

// DefaultDemoData returns the fixture snapshot shown before any call.
func DefaultDemoData() DemoData {
	return DemoData{
		Name:        "Aarav Sharma",
		Balance:     125430.00,
		CardStatus:  "Active",
		EMIDue:      "Nov 5, 2025",
		ClaimStatus: "Under Review",
	}
}

// CallStarter places the outbound demo call; *twilio.Client satisfies it.
type CallStarter interface {
	CreateCall(ctx context.Context, req twilio.CallRequest) (*twilio.Call, error)
}

// Handler serves the dashboard mirror API.
type Handler struct {
	log    *ChatLog
	logger *logging.Logger

	demoMu sync.Mutex
	demo   DemoData

	// outbound demo call trigger; nil disables /start-call
	caller        CallStarter
	fromNumber    string
	calleeNumber  string
	publicBaseURL string

	wsMu    sync.Mutex
	wsConns map[*websocket.Conn]struct{}
}

// HandlerConfig configures the dashboard handler.
type HandlerConfig struct {
	ChatLog       *ChatLog
	Caller        CallStarter
	FromNumber    string
	CalleeNumber  string
	PublicBaseURL string
	Logger        *logging.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.ChatLog == nil {
		cfg.ChatLog = NewChatLog(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		log:           cfg.ChatLog,
		logger:        cfg.Logger,
		demo:          DefaultDemoData(),
		caller:        cfg.Caller,
		fromNumber:    cfg.FromNumber,
		calleeNumber:  cfg.CalleeNumber,
		publicBaseURL: cfg.PublicBaseURL,
		wsConns:       make(map[*websocket.Conn]struct{}),
	}
}

// Routes mounts the dashboard endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/conversation", h.GetConversation)
	r.Post("/conversation", h.AddConversation)
	r.Get("/demo-data", h.GetDemoData)
	r.Post("/demo-update", h.DemoUpdate)
	r.Get("/start-call", h.StartCall)
	r.Get("/ws", h.HandleWebSocket)
	r.Get("/health", h.HealthCheck)
	return r
}

// GetConversation returns the mirrored chat log.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"chat": h.log.List()})
}

// AddConversation appends one event and broadcasts it to live viewers.
func (h *Handler) AddConversation(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	h.log.Append(ev)
	h.broadcast(ev)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GetDemoData returns the display snapshot.
func (h *Handler) GetDemoData(w http.ResponseWriter, r *http.Request) {
	h.demoMu.Lock()
	demo := h.demo
	h.demoMu.Unlock()
	writeJSON(w, http.StatusOK, demo)
}

// DemoUpdate simulates the effect of an intent on the display snapshot.
func (h *Handler) DemoUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Intent string `json:"intent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	h.demoMu.Lock()
	switch body.Intent {
	case "balance":
		h.demo.Balance -= 500
	case "card_block":
		h.demo.CardStatus = "Blocked"
	case "emi_info":
		h.demo.EMIDue = "Paid"
	case "claim_status":
		h.demo.ClaimStatus = "Settled"
	}
	demo := h.demo
	h.demoMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "demo_data": demo})
}

// StartCall triggers the outbound demo call in the background and returns
// immediately; the call's own webhooks report progress.
func (h *Handler) StartCall(w http.ResponseWriter, r *http.Request) {
	if h.caller == nil || h.fromNumber == "" || h.calleeNumber == "" || h.publicBaseURL == "" {
		http.Error(w, "outbound calling not configured", http.StatusServiceUnavailable)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		call, err := h.caller.CreateCall(ctx, twilio.CallRequest{
			To:                h.calleeNumber,
			From:              h.fromNumber,
			VoiceURL:          h.publicBaseURL + "/voice",
			StatusCallbackURL: h.publicBaseURL + "/call-status",
		})
		if err != nil {
			h.logger.Error("demo call failed", "error", err)
			return
		}
		h.logger.Info("demo call placed", "call_sid", call.SID, "status", call.Status)
	}()

	writeJSON(w, http.StatusOK, map[string]any{"status": "Call initiated"})
}

// HandleWebSocket streams appended events to the dashboard UI.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn) {
	// Replay existing history so a freshly opened dashboard is current.
	for _, ev := range h.log.List() {
		if err := websocket.JSON.Send(conn, ev); err != nil {
			return
		}
	}

	h.wsMu.Lock()
	h.wsConns[conn] = struct{}{}
	h.wsMu.Unlock()
	defer func() {
		h.wsMu.Lock()
		delete(h.wsConns, conn)
		h.wsMu.Unlock()
	}()

	// Block until the peer goes away; sends happen from broadcast.
	var discard any
	for {
		if err := websocket.JSON.Receive(conn, &discard); err != nil {
			return
		}
	}
}

func (h *Handler) broadcast(ev Event) {
	h.wsMu.Lock()
	defer h.wsMu.Unlock()
	for conn := range h.wsConns {
		if err := websocket.JSON.Send(conn, ev); err != nil {
			delete(h.wsConns, conn)
			_ = conn.Close()
		}
	}
}

// HealthCheck returns a simple health check response.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
