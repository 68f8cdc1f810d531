package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHistoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, schema := range []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  loyalty_points INTEGER NOT NULL DEFAULT 0,
  total_spent NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE transactions (
  id TEXT PRIMARY KEY,
  date DATETIME NOT NULL,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  items TEXT,
  customer_id TEXT,
  cashier_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	} {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

func seedHistory(t *testing.T, conn *gorm.DB) (cashierID, customerID uuid.UUID) {
	t.Helper()

	cashierID = uuid.New()
	require.NoError(t, conn.Create(&models.User{
		ID:           cashierID,
		Username:     "marge",
		PasswordHash: "x",
		Role:         enums.UserRoleCashier,
	}).Error)

	customerID = uuid.New()
	require.NoError(t, conn.Create(&models.Customer{
		ID:    customerID,
		Name:  "Norm Peterson",
		Phone: "555-0100",
	}).Error)
	return cashierID, customerID
}

func seedTransaction(t *testing.T, conn *gorm.DB, cashierID uuid.UUID, customerID *uuid.UUID, date time.Time, txnType enums.TransactionType, amount string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, conn.Create(&models.Transaction{
		ID:            id,
		Date:          date,
		Type:          txnType,
		Amount:        decimal.RequireFromString(amount),
		Status:        enums.TransactionStatusCompleted,
		PaymentMethod: "cash",
		Items:         types.TransactionLines{},
		CustomerID:    customerID,
		CashierID:     cashierID,
	}).Error)
	return id
}

func TestListTransactionsCursorPagination(t *testing.T) {
	conn := setupHistoryTestDB(t)
	cashierID, customerID := seedHistory(t, conn)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		ids = append(ids, seedTransaction(t, conn, cashierID, &customerID, base.Add(time.Duration(i)*time.Hour), enums.TransactionTypeSale, "10.00"))
	}

	page, err := svc.ListTransactions(ctx, ListInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	require.NotEmpty(t, page.NextCursor)
	// Newest first: the last seeded rows come back first.
	assert.Equal(t, ids[4], page.Transactions[0].ID)
	assert.Equal(t, ids[3], page.Transactions[1].ID)
	assert.Equal(t, "marge", page.Transactions[0].CashierUsername)
	require.NotNil(t, page.Transactions[0].CustomerName)
	assert.Equal(t, "Norm Peterson", *page.Transactions[0].CustomerName)

	page, err = svc.ListTransactions(ctx, ListInput{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Equal(t, ids[2], page.Transactions[0].ID)
	assert.Equal(t, ids[1], page.Transactions[1].ID)

	page, err = svc.ListTransactions(ctx, ListInput{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, ids[0], page.Transactions[0].ID)
	assert.Empty(t, page.NextCursor, "exhausted history must not hand out a cursor")
}

func TestListTransactionsExactPageBoundary(t *testing.T) {
	conn := setupHistoryTestDB(t)
	cashierID, _ := seedHistory(t, conn)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedTransaction(t, conn, cashierID, nil, base.Add(time.Duration(i)*time.Hour), enums.TransactionTypeSale, "5.00")
	}

	page, err := svc.ListTransactions(context.Background(), ListInput{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 3)
	assert.Empty(t, page.NextCursor, "a page that drains the table has no next cursor")
}

func TestListTransactionsTypeFilter(t *testing.T) {
	conn := setupHistoryTestDB(t)
	cashierID, _ := seedHistory(t, conn)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	seedTransaction(t, conn, cashierID, nil, base, enums.TransactionTypeSale, "10.00")
	refundID := seedTransaction(t, conn, cashierID, nil, base.Add(time.Hour), enums.TransactionTypeRefund, "4.50")

	page, err := svc.ListTransactions(context.Background(), ListInput{Type: "refund"})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, refundID, page.Transactions[0].ID)
	assert.Equal(t, enums.TransactionTypeRefund, page.Transactions[0].Type)
}

func TestListTransactionsRejectsBadInput(t *testing.T) {
	conn := setupHistoryTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.ListTransactions(ctx, ListInput{Cursor: "not a cursor"})
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())

	from := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	to := from.Add(-24 * time.Hour)
	_, err = svc.ListTransactions(ctx, ListInput{From: &from, To: &to})
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())

	_, err = svc.ListTransactions(ctx, ListInput{Type: "void"})
	coded = pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeValidation, coded.Code())
}
