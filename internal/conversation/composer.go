package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/bfsi-ai/voice-agent/internal/intent"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

const (
	escalationMessage = "Okay, I'll connect you to a human specialist and share the context."
	fallbackMessage   = "You can ask about your balance, block a card, EMI details, claim status, or update contact info."

	rephraseSystemPrompt = "Rephrase for phone voice: concise, warm, plain-English (en-IN), no extra fluff."

	defaultRephraseTimeout = 4 * time.Second
)

// Rephrase outcomes reported to metrics.
const (
	RephraseOutcomeOK       = "ok"
	RephraseOutcomeFallback = "fallback"
	RephraseOutcomeDisabled = "disabled"
)

// RephraseMetrics receives the outcome of each rephrasing attempt.
type RephraseMetrics interface {
	ObserveRephrase(outcome string)
}

// Composer turns caller speech into the final spoken answer: classify,
// dispatch to a domain handler, then optionally soften the phrasing through
// the language model. It is the only place where directory mutations become
// user-facing text.
type Composer struct {
	handlers *Handlers
	llm      LLMClient
	timeout  time.Duration
	logger   *logging.Logger
	metrics  RephraseMetrics
}

// ComposerConfig configures the Composer. LLM may be nil, which disables
// rephrasing entirely; that is a supported mode, not a degraded one.
type ComposerConfig struct {
	Handlers *Handlers
	LLM      LLMClient
	Timeout  time.Duration
	Logger   *logging.Logger
	Metrics  RephraseMetrics
}

// NewComposer creates a Composer.
func NewComposer(cfg ComposerConfig) *Composer {
	if cfg.Handlers == nil {
		panic("conversation: handlers cannot be nil")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRephraseTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Composer{
		handlers: cfg.Handlers,
		llm:      cfg.LLM,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// GenerateResponse produces the utterance spoken back for one query turn.
// It never fails: every path ends in a coherent message.
func (c *Composer) GenerateResponse(ctx context.Context, phone, userText string) string {
	tag := intent.Classify(userText)

	var msg string
	switch tag {
	case intent.BalanceInquiry:
		msg = c.handlers.BalanceInquiry(ctx, phone).Message
	case intent.CardBlock:
		msg = c.handlers.CardBlock(ctx, phone).Message
	case intent.EMIInfo:
		msg = c.handlers.EMIInfo(ctx, phone).Message
	case intent.ClaimStatus:
		msg = c.handlers.ClaimStatus(ctx, phone).Message
	case intent.UpdateContact:
		msg = c.handlers.UpdateContact(ctx, phone, lastToken(userText)).Message
	case intent.Escalation:
		msg = escalationMessage
	default:
		msg = fallbackMessage
	}

	return c.naturalize(ctx, msg)
}

// naturalize asks the language model for TTS-friendly phrasing. Any failure
// (no client, timeout, provider error, empty output) returns the original
// message unmodified; rephrasing must never block or break the call flow.
func (c *Composer) naturalize(ctx context.Context, msg string) string {
	if c.llm == nil {
		c.observe(RephraseOutcomeDisabled)
		return msg
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.llm.Complete(ctx, LLMRequest{
		System:      []string{rephraseSystemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: msg}},
		MaxTokens:   200,
		Temperature: 0.6,
	})
	if err != nil {
		c.logger.Warn("rephrase failed, using original message", "error", err)
		c.observe(RephraseOutcomeFallback)
		return msg
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		c.observe(RephraseOutcomeFallback)
		return msg
	}
	c.observe(RephraseOutcomeOK)
	return text
}

func (c *Composer) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.ObserveRephrase(outcome)
	}
}

// lastToken extracts the final whitespace-separated token of an utterance.
// The update-contact intent treats it as the new value ("update my email to
// a@b.com" -> "a@b.com").
func lastToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
