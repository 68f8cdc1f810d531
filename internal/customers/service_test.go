package customer

import (
	"context"
	"fmt"
	"testing"

	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  loyalty_points INTEGER NOT NULL DEFAULT 0,
  total_spent NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newCustomersTestService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(NewRepository(setupCustomersTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestQuickAddCustomerStartsWithZeroStats(t *testing.T) {
	svc := newCustomersTestService(t)

	created, err := svc.QuickAddCustomer(context.Background(), "Cliff Clavin", "555-0199")
	require.NoError(t, err)
	assert.Equal(t, 0, created.LoyaltyPoints)
	assert.True(t, created.TotalSpent.IsZero())
	assert.Nil(t, created.Email)
}

func TestSearchCustomersShortQueryIsQuiet(t *testing.T) {
	svc := newCustomersTestService(t)
	ctx := context.Background()

	_, err := svc.QuickAddCustomer(ctx, "Norm Peterson", "555-0100")
	require.NoError(t, err)

	// One character is below the incremental-search threshold: empty result,
	// not an error.
	rows, err := svc.SearchCustomers(ctx, "N")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = svc.SearchCustomers(ctx, "  n ")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchCustomersMatchesNamePhoneEmail(t *testing.T) {
	svc := newCustomersTestService(t)
	ctx := context.Background()

	email := "norm@cheers.example"
	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Norm Peterson", Phone: "555-0100", Email: &email})
	require.NoError(t, err)
	_, err = svc.QuickAddCustomer(ctx, "Rebecca Howe", "555-0142")
	require.NoError(t, err)

	rows, err := svc.SearchCustomers(ctx, "norm")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Norm Peterson", rows[0].Name)

	rows, err = svc.SearchCustomers(ctx, "0142")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rebecca Howe", rows[0].Name)

	rows, err = svc.SearchCustomers(ctx, "cheers.example")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Norm Peterson", rows[0].Name)
}

func TestSearchCustomersCapsResults(t *testing.T) {
	svc := newCustomersTestService(t)
	ctx := context.Background()

	for i := 0; i < searchLimit+2; i++ {
		_, err := svc.QuickAddCustomer(ctx, fmt.Sprintf("Regular %02d", i), fmt.Sprintf("555-02%02d", i))
		require.NoError(t, err)
	}

	rows, err := svc.SearchCustomers(ctx, "Regular")
	require.NoError(t, err)
	assert.Len(t, rows, searchLimit)
}

func TestDeleteCustomer(t *testing.T) {
	svc := newCustomersTestService(t)
	ctx := context.Background()

	created, err := svc.QuickAddCustomer(ctx, "Norm Peterson", "555-0100")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))

	_, err = svc.GetCustomer(ctx, created.ID)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())

	err = svc.DeleteCustomer(ctx, created.ID)
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}
