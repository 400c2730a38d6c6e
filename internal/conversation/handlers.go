package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bfsi-ai/voice-agent/internal/directory"
)

// Result is the outcome of a domain handler. Not-found conditions come back
// as Success=false with a caller-safe Message, never as an error: the call
// flow speaks the message either way.
type Result struct {
	Success bool
	Message string
	Data    any
}

// Handlers implements the per-intent banking and insurance operations
// against the customer directory.
type Handlers struct {
	repo        directory.Repository
	countryCode string
}

// NewHandlers creates the domain handlers backed by the given repository.
func NewHandlers(repo directory.Repository, countryCode string) *Handlers {
	if countryCode == "" {
		countryCode = "+91"
	}
	return &Handlers{repo: repo, countryCode: countryCode}
}

// BalanceInquiry reports the first account's balance and, when known, the
// most recent transaction.
func (h *Handlers) BalanceInquiry(ctx context.Context, phone string) Result {
	c, err := h.repo.FindByPhone(ctx, phone)
	if err != nil || len(c.Accounts) == 0 {
		return Result{Message: "I couldn't find an eligible account for this number."}
	}
	a := c.Accounts[0]

	lastLine := ""
	if a.LastTxn != nil {
		lastLine = fmt.Sprintf(" Your last transaction was a %s of ₹%.2f on %s at %s.",
			a.LastTxn.Type, a.LastTxn.Amount, a.LastTxn.On.Format("January 2"), a.LastTxn.Merchant)
	}
	msg := fmt.Sprintf("Your %s account ending in %s has a current balance of ₹%.2f.%s Would you like a mini statement via SMS?",
		a.Type, a.Last4, a.Balance, lastLine)
	return Result{Success: true, Message: msg, Data: a}
}

// CardBlock blocks the customer's first card. Blocking an already-blocked
// card succeeds without touching the record.
func (h *Handlers) CardBlock(ctx context.Context, phone string) Result {
	var res Result
	err := h.repo.Mutate(ctx, phone, func(c *directory.Customer) error {
		if len(c.Cards) == 0 {
			return directory.ErrNotFound
		}
		card := &c.Cards[0]
		if card.Blocked {
			res = Result{
				Success: true,
				Message: fmt.Sprintf("Your card ending %s is already blocked.", card.Last4),
				Data:    *card,
			}
			return nil
		}
		card.Blocked = true
		card.Status = directory.CardStatusBlocked
		res = Result{
			Success: true,
			Message: fmt.Sprintf("I've blocked your card ending in %s immediately. No further transactions can be made. Do you want a replacement card?", card.Last4),
			Data:    *card,
		}
		return nil
	})
	if err != nil {
		return Result{Message: "I couldn't find a card linked to this number."}
	}
	return res
}

// EMIInfo reports the next EMI, outstanding principal, and remaining tenure
// for the customer's first loan.
func (h *Handlers) EMIInfo(ctx context.Context, phone string) Result {
	c, err := h.repo.FindByPhone(ctx, phone)
	if err != nil || len(c.Loans) == 0 {
		return Result{Message: "I couldn't find a loan linked to this number."}
	}
	l := c.Loans[0]
	msg := fmt.Sprintf("Your next EMI of ₹%.2f is due on %s. Outstanding principal is ₹%.2f. You have %d months remaining. Would you like to explore prepayment options?",
		l.EMI, l.DueDate.Format("January 2, 2006"), l.OutstandingPrincipal, l.MonthsRemaining)
	return Result{Success: true, Message: msg, Data: l}
}

// ClaimStatus reports the active claim on the customer's first policy, or
// that the policy has none.
func (h *Handlers) ClaimStatus(ctx context.Context, phone string) Result {
	c, err := h.repo.FindByPhone(ctx, phone)
	if err != nil || len(c.Policies) == 0 {
		return Result{Message: "I couldn't find an insurance policy linked to this number."}
	}
	p := c.Policies[0]
	if p.Claim == nil {
		return Result{
			Success: true,
			Message: fmt.Sprintf("Your %s policy %s has no active claims.", p.Type, p.PolicyNo),
			Data:    p,
		}
	}
	cl := p.Claim
	msg := fmt.Sprintf("Your claim %s submitted on %s for ₹%.2f is currently %s. Expected settlement date: %s. I'll notify you when it's processed.",
		cl.ID, cl.SubmittedOn.Format("January 2, 2006"), cl.Amount,
		strings.ReplaceAll(cl.Status, "_", " "),
		cl.ExpectedSettlementOn.Format("January 2, 2006"))
	return Result{Success: true, Message: msg, Data: *cl}
}

// UpdateContact updates the customer's email or phone depending on the shape
// of newValue: anything with an "@" is an email, everything else is treated
// as a phone number and normalized to the configured country code. The
// confirmation names the field that changed, never the raw value.
func (h *Handlers) UpdateContact(ctx context.Context, phone, newValue string) Result {
	what := "mobile number"
	err := h.repo.Mutate(ctx, phone, func(c *directory.Customer) error {
		if strings.Contains(newValue, "@") {
			c.Contact.Email = newValue
			what = "email address"
			return nil
		}
		c.Contact.Phone = normalizePhone(newValue, h.countryCode)
		return nil
	})
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return Result{Message: "I couldn't identify your profile to update details."}
		}
		return Result{Message: "I couldn't update your details right now."}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Done. I've updated your %s. A confirmation has been sent.", what),
	}
}

// normalizePhone keeps values that already carry a "+" prefix and rewrites
// everything else to countryCode + last 10 digits.
func normalizePhone(value, countryCode string) string {
	if strings.HasPrefix(value, "+") {
		return value
	}
	digits := DigitsOnly(value)
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return countryCode + digits
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
