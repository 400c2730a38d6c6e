// Package intent classifies free-form caller speech into the fixed set of
// request categories the voice agent knows how to handle.
package intent

import "strings"

// Intent is one of the closed set of request categories.
type Intent string

const (
	BalanceInquiry Intent = "balance_inquiry"
	CardBlock      Intent = "card_block"
	EMIInfo        Intent = "emi_info"
	ClaimStatus    Intent = "claim_status"
	UpdateContact  Intent = "update_contact"
	Escalation     Intent = "escalation"
	Fallback       Intent = "fallback"
)

// rule is an ordered keyword set; the first rule with a substring match wins.
type rule struct {
	intent   Intent
	keywords []string
}

// Rule order is part of the contract: ambiguous text ("balance on this
// claim") resolves to the earliest matching rule. Do not reorder.
var rules = []rule{
	{BalanceInquiry, []string{"balance", "account", "statement", "transactions", "money", "funds"}},
	{CardBlock, []string{"lost card", "stolen card", "block my card", "block card", "block the card", "hotlist", "deactivate card"}},
	{EMIInfo, []string{"emi", "loan", "due", "installment", "repayment"}},
	{ClaimStatus, []string{"claim", "insurance", "policy", "coverage"}},
	{UpdateContact, []string{"update phone", "change number", "update mobile", "update email", "change email", "update address"}},
	{Escalation, []string{"agent", "human", "representative", "talk to person", "help"}},
}

// Classify maps transcript text to an Intent. Empty or unmatched text is
// Fallback. Deterministic, no side effects.
func Classify(text string) Intent {
	t := normalize(text)
	if t == "" {
		return Fallback
	}
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(t, k) {
				return r.intent
			}
		}
	}
	return Fallback
}

// normalize lowercases and collapses common inflections so "blocking my
// card" and "card blocked" hit the card-block keyword set.
func normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, "blocking", "block")
	t = strings.ReplaceAll(t, "blocked", "block")
	return t
}
