package directory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_FindByPhone(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())

	cust, err := repo.FindByPhone(context.Background(), "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, "Aarav Sharma", cust.Name)
	require.Len(t, cust.Accounts, 1)
	assert.Equal(t, 125430.00, cust.Accounts[0].Balance)
}

func TestInMemoryRepository_FindByPhone_NotFound(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())

	_, err := repo.FindByPhone(context.Background(), "+910000000000")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// FindByPhone returns a snapshot; mutating it must not leak back into the
// store.
func TestInMemoryRepository_FindByPhone_ReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())
	ctx := context.Background()

	cust, err := repo.FindByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	cust.Cards[0].Status = CardStatusBlocked
	cust.Accounts[0].Balance = 0

	again, err := repo.FindByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, CardStatusActive, again.Cards[0].Status)
	assert.Equal(t, 125430.00, again.Accounts[0].Balance)
}

func TestInMemoryRepository_Mutate(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())
	ctx := context.Background()

	err := repo.Mutate(ctx, "+919876543210", func(c *Customer) error {
		c.Cards[0].Status = CardStatusBlocked
		c.Cards[0].Blocked = true
		return nil
	})
	require.NoError(t, err)

	cust, err := repo.FindByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, CardStatusBlocked, cust.Cards[0].Status)
	assert.True(t, cust.Cards[0].Blocked)
}

func TestInMemoryRepository_Mutate_NotFound(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())

	err := repo.Mutate(context.Background(), "+911111111111", func(c *Customer) error {
		t.Fatal("mutate fn should not be called for unknown phone")
		return nil
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInMemoryRepository_Mutate_PropagatesError(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())
	sentinel := errors.New("nope")

	err := repo.Mutate(context.Background(), "+919876543210", func(c *Customer) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestInMemoryRepository_ConcurrentMutate(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Mutate(ctx, "+919876543210", func(c *Customer) error {
				c.Accounts[0].Balance -= 1
				return nil
			})
		}()
	}
	wg.Wait()

	cust, err := repo.FindByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, 125430.00-50, cust.Accounts[0].Balance)
}

func TestFixtureCustomers_SecondCustomerHasClaim(t *testing.T) {
	repo := NewInMemoryRepository(FixtureCustomers())

	cust, err := repo.FindByPhone(context.Background(), "+919812345678")
	require.NoError(t, err)
	require.Len(t, cust.Policies, 1)
	require.NotNil(t, cust.Policies[0].Claim)
	assert.Equal(t, "CLM-88657", cust.Policies[0].Claim.ID)
	assert.Equal(t, "under_review", cust.Policies[0].Claim.Status)
}
