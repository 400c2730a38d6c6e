// Package directory holds the customer lookup store for the voice agent.
// Records are keyed by E.164 phone number and mutated in place by the
// domain handlers; there is no persistence behind it in this prototype.
package directory

import "time"

// Customer is a single customer record keyed by phone number.
type Customer struct {
	Name     string    `json:"name"`
	Segment  string    `json:"segment"`
	Language string    `json:"language"`
	Accounts []Account `json:"accounts"`
	Cards    []Card    `json:"cards"`
	Loans    []Loan    `json:"loans"`
	Policies []Policy  `json:"policies"`
	Contact  Contact   `json:"contact"`
}

// Account is a deposit account. Balance is kept as a plain float; the
// fixture data never carries more than two decimal places.
type Account struct {
	Type     string       `json:"type"`
	Last4    string       `json:"last4"`
	Balance  float64      `json:"balance"`
	Currency string       `json:"currency"`
	LastTxn  *Transaction `json:"last_txn,omitempty"`
}

// Transaction is the most recent account transaction, when known.
type Transaction struct {
	Type     string    `json:"type"`
	Amount   float64   `json:"amount"`
	Merchant string    `json:"merchant"`
	On       time.Time `json:"on"`
}

// Card statuses. Blocked and Status move together; see Handlers.CardBlock.
const (
	CardStatusActive  = "active"
	CardStatusBlocked = "blocked"
)

// Card is a payment card linked to the customer.
type Card struct {
	Last4   string `json:"last4"`
	Network string `json:"network"`
	Status  string `json:"status"`
	Blocked bool   `json:"blocked"`
	Limit   int    `json:"limit"`
}

// Loan is an outstanding loan with its repayment schedule.
type Loan struct {
	Type                 string    `json:"type"`
	EMI                  float64   `json:"emi"`
	DueDate              time.Time `json:"due_date"`
	OutstandingPrincipal float64   `json:"outstanding_principal"`
	MonthsRemaining      int       `json:"months_remaining"`
}

// Policy is an insurance policy, optionally with one active claim.
type Policy struct {
	Type     string `json:"type"`
	PolicyNo string `json:"policy_no"`
	Status   string `json:"status"`
	Claim    *Claim `json:"claim,omitempty"`
}

// Claim is an in-flight insurance claim on a policy.
type Claim struct {
	ID                   string    `json:"id"`
	SubmittedOn          time.Time `json:"submitted_on"`
	Amount               float64   `json:"amount"`
	Status               string    `json:"status"`
	ExpectedSettlementOn time.Time `json:"expected_settlement_on"`
}

// Contact holds the customer's reachable email and phone.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}
