package directory

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when no customer exists for a phone number.
var ErrNotFound = errors.New("directory: customer not found")

// Repository defines the interface for customer lookup and mutation.
// FindByPhone returns a snapshot copy; all writes go through Mutate so that
// concurrent card blocks on the same record stay consistent.
type Repository interface {
	FindByPhone(ctx context.Context, phone string) (Customer, error)
	Mutate(ctx context.Context, phone string, fn func(*Customer) error) error
}

// InMemoryRepository is a Repository backed by a fixture-seeded map.
type InMemoryRepository struct {
	mu        sync.Mutex
	customers map[string]*Customer
}

// NewInMemoryRepository creates a repository seeded with the given customers.
func NewInMemoryRepository(customers map[string]*Customer) *InMemoryRepository {
	if customers == nil {
		customers = make(map[string]*Customer)
	}
	return &InMemoryRepository{customers: customers}
}

// FindByPhone retrieves a copy of the customer record for a phone number.
func (r *InMemoryRepository) FindByPhone(ctx context.Context, phone string) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[phone]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return copyCustomer(c), nil
}

// Mutate applies fn to the stored record under the repository lock. The
// mutation is visible to every subsequent FindByPhone for the same number.
func (r *InMemoryRepository) Mutate(ctx context.Context, phone string, fn func(*Customer) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[phone]
	if !ok {
		return ErrNotFound
	}
	return fn(c)
}

// copyCustomer deep-copies a record so readers never alias the stored slices.
func copyCustomer(c *Customer) Customer {
	out := *c
	out.Accounts = append([]Account(nil), c.Accounts...)
	for i, a := range out.Accounts {
		if a.LastTxn != nil {
			txn := *a.LastTxn
			out.Accounts[i].LastTxn = &txn
		}
	}
	out.Cards = append([]Card(nil), c.Cards...)
	out.Loans = append([]Loan(nil), c.Loans...)
	out.Policies = append([]Policy(nil), c.Policies...)
	for i, p := range out.Policies {
		if p.Claim != nil {
			claim := *p.Claim
			out.Policies[i].Claim = &claim
		}
	}
	return out
}
