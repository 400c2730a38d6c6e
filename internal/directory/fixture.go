package directory

import "time"

// FixtureCustomers returns the demo dataset the prototype ships with. The
// records are complete enough to exercise every intent: the first customer
// has no active claim, the second one does.
func FixtureCustomers() map[string]*Customer {
	return map[string]*Customer{
		"+919876543210": {
			Name:     "Aarav Sharma",
			Segment:  "Retail",
			Language: "en-IN",
			Accounts: []Account{
				{
					Type:     "savings",
					Last4:    "4567",
					Balance:  125430.00,
					Currency: "INR",
					LastTxn: &Transaction{
						Type:     "debit",
						Amount:   2500.00,
						Merchant: "ABC Store",
						On:       time.Date(2025, time.October, 25, 0, 0, 0, 0, time.UTC),
					},
				},
			},
			Cards: []Card{
				{Last4: "8912", Network: "VISA", Status: CardStatusActive, Limit: 200000},
			},
			Loans: []Loan{
				{
					Type:                 "home",
					EMI:                  32450.00,
					DueDate:              time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
					OutstandingPrincipal: 2845000.00,
					MonthsRemaining:      142,
				},
			},
			Policies: []Policy{
				{Type: "health", PolicyNo: "HLP-5566-9988", Status: "active"},
			},
			Contact: Contact{Email: "aarav@example.com", Phone: "+919876543210"},
		},
		"+919812345678": {
			Name:     "Meera Iyer",
			Segment:  "Priority",
			Language: "en-IN",
			Accounts: []Account{
				{Type: "savings", Last4: "2209", Balance: 48210.55, Currency: "INR"},
			},
			Cards: []Card{
				{Last4: "4431", Network: "Mastercard", Status: CardStatusActive, Limit: 350000},
			},
			Policies: []Policy{
				{
					Type:     "motor",
					PolicyNo: "MTR-1122-3344",
					Status:   "active",
					Claim: &Claim{
						ID:                   "CLM-88657",
						SubmittedOn:          time.Date(2025, time.October, 12, 0, 0, 0, 0, time.UTC),
						Amount:               18500.00,
						Status:               "under_review",
						ExpectedSettlementOn: time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC),
					},
				},
			},
			Contact: Contact{Email: "meera@example.com", Phone: "+919812345678"},
		},
	}
}
