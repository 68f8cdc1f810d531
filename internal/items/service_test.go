package item

import (
	"context"
	"testing"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/config"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupItemsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE items (
  id TEXT PRIMARY KEY,
  barcode TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  case_quantity INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL,
  average_cost NUMERIC NOT NULL DEFAULT 0,
  margin NUMERIC NOT NULL DEFAULT 0,
  size TEXT,
  category TEXT,
  supplier TEXT,
  units_per_case INTEGER NOT NULL DEFAULT 0,
  case_cost NUMERIC NOT NULL DEFAULT 0,
  rank INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func newTestService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(NewRepository(setupItemsTestDB(t)), config.InventoryConfig{LowStockThreshold: 10})
	require.NoError(t, err)
	return svc
}

func createTestItem(t *testing.T, svc Service, barcode, name string, qty int, price string) *ItemDTO {
	t.Helper()

	dto, err := svc.CreateItem(context.Background(), CreateItemInput{
		Barcode:  barcode,
		Name:     name,
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return dto
}

func TestCreateItemDuplicateBarcode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	createTestItem(t, svc, "0123456789", "Old Fitz Bottled in Bond", 6, "54.99")

	_, err := svc.CreateItem(ctx, CreateItemInput{
		Barcode:  "0123456789",
		Name:     "Different Name Same Code",
		Quantity: 1,
		Price:    decimal.RequireFromString("9.99"),
	})
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())
}

func TestGetItemByBarcode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestItem(t, svc, "812066020001", "Rittenhouse Rye", 12, "27.99")

	found, err := svc.GetItemByBarcode(ctx, "812066020001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Rittenhouse Rye", found.Name)

	_, err = svc.GetItemByBarcode(ctx, "000000000000")
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestUpdateItemPartialFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestItem(t, svc, "080480280024", "Buffalo Trace", 24, "31.99")

	newPrice := decimal.RequireFromString("34.99")
	updated, err := svc.UpdateItem(ctx, created.ID, UpdateItemInput{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Buffalo Trace", updated.Name)
	assert.Equal(t, 24, updated.Quantity)
}

func TestAdjustQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created := createTestItem(t, svc, "088004021344", "Elijah Craig Small Batch", 5, "29.99")

	dto, err := svc.AdjustQuantity(ctx, created.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, dto.Quantity)

	dto, err = svc.AdjustQuantity(ctx, created.ID, -12)
	require.NoError(t, err)
	assert.Equal(t, 0, dto.Quantity)

	// Draining below zero must fail without touching the row.
	_, err = svc.AdjustQuantity(ctx, created.ID, -1)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeConflict, coded.Code())

	dto, err = svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, dto.Quantity)

	_, err = svc.AdjustQuantity(ctx, uuid.New(), 3)
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestSearchItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	createTestItem(t, svc, "721059001116", "Four Roses Single Barrel", 8, "44.99")
	createTestItem(t, svc, "721059000119", "Four Roses Small Batch", 10, "32.99")
	createTestItem(t, svc, "083664868533", "Laphroaig 10", 4, "49.99")

	rows, err := svc.SearchItems(ctx, "four roses")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = svc.SearchItems(ctx, "721059001116")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Four Roses Single Barrel", rows[0].Name)
}

func TestLowStockItems(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	createTestItem(t, svc, "1", "Well Stocked", 50, "9.99")
	createTestItem(t, svc, "2", "Running Low", 3, "9.99")
	createTestItem(t, svc, "3", "At Threshold", 10, "9.99")

	rows, err := svc.LowStockItems(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Running Low", rows[0].Name)
	assert.Equal(t, "At Threshold", rows[1].Name)
}
