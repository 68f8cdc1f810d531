package item

import (
	"context"
	"testing"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItemRow(t *testing.T, r *Repository, barcode, name string, qty int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := r.Create(context.Background(), &models.Item{
		ID:       id,
		Barcode:  barcode,
		Name:     name,
		Quantity: qty,
		Price:    decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)
	return id
}

func TestRestockAllAppliesEveryLine(t *testing.T) {
	r := NewRepository(setupItemsTestDB(t))
	ctx := context.Background()

	ale := seedItemRow(t, r, "1", "Amber Ale", 4)
	gin := seedItemRow(t, r, "2", "Botanical Gin", 0)

	require.NoError(t, r.RestockAll(ctx, []StockAdjustment{
		{ItemID: ale, Quantity: 2},
		{ItemID: gin, Quantity: 6},
	}))

	got, err := r.FindByID(ctx, ale)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	got, err = r.FindByID(ctx, gin)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
}

func TestRestockAllRollsBackOnUnknownItem(t *testing.T) {
	r := NewRepository(setupItemsTestDB(t))
	ctx := context.Background()

	ale := seedItemRow(t, r, "1", "Amber Ale", 4)

	err := r.RestockAll(ctx, []StockAdjustment{
		{ItemID: ale, Quantity: 2},
		{ItemID: uuid.New(), Quantity: 1},
	})
	require.Error(t, err)

	// The earlier increment must have rolled back with the failing one.
	got, err := r.FindByID(ctx, ale)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}
