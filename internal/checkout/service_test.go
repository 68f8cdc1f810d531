package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/internal/cart"
	"github.com/barrelhousehq/barrelhouse-backend/internal/items"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubTransactionStore struct {
	created       []*models.Transaction
	createErr     error
	statusUpdates map[uuid.UUID]enums.TransactionStatus
	statusErr     error
}

func (s *stubTransactionStore) Create(_ context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, txn)
	return txn, nil
}

func (s *stubTransactionStore) UpdateStatus(_ context.Context, id uuid.UUID, status enums.TransactionStatus) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	if s.statusUpdates == nil {
		s.statusUpdates = map[uuid.UUID]enums.TransactionStatus{}
	}
	s.statusUpdates[id] = status
	return nil
}

type stockCall struct {
	itemID uuid.UUID
	qty    int
}

type stubInventory struct {
	decrements  []stockCall
	increments  []stockCall
	shortItemID uuid.UUID
	restockErr  error
}

func (s *stubInventory) DecrementQuantity(_ context.Context, id uuid.UUID, qty int) (int64, error) {
	if id == s.shortItemID {
		return 0, nil
	}
	s.decrements = append(s.decrements, stockCall{itemID: id, qty: qty})
	return 1, nil
}

func (s *stubInventory) RestockAll(_ context.Context, adjustments []item.StockAdjustment) error {
	if s.restockErr != nil {
		return s.restockErr
	}
	for _, adj := range adjustments {
		s.increments = append(s.increments, stockCall{itemID: adj.ItemID, qty: adj.Quantity})
	}
	return nil
}

type accrualCall struct {
	customerID uuid.UUID
	spent      decimal.Decimal
	points     int
}

type stubCustomers struct {
	accruals []accrualCall
	err      error
}

func (s *stubCustomers) IncrementStats(_ context.Context, id uuid.UUID, spent decimal.Decimal, points int) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.accruals = append(s.accruals, accrualCall{customerID: id, spent: spent, points: points})
	return 1, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, txns *stubTransactionStore, inv *stubInventory, custs *stubCustomers) Service {
	t.Helper()
	svc, err := NewService(txns, inv, custs, testLogger(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func line(id uuid.UUID, name, price string, qty int) cart.Line {
	return cart.Line{ItemID: id, Name: name, UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestCheckoutCashSaleAccruesLoyalty(t *testing.T) {
	txns := &stubTransactionStore{}
	inv := &stubInventory{}
	custs := &stubCustomers{}
	svc := newTestService(t, txns, inv, custs)

	customerID := uuid.New()
	tendered := decimal.RequireFromString("50.00")
	receipt, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines: []cart.Line{
			line(uuid.New(), "Old Fashioned Rye", "24.99", 1),
			line(uuid.New(), "Amber Ale", "17.71", 1),
		},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCash,
		CashTendered:  &tendered,
		CustomerID:    &customerID,
		CashierID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if want := decimal.RequireFromString("42.70"); !receipt.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, receipt.Total)
	}
	if want := decimal.RequireFromString("7.30"); !receipt.Change.Equal(want) {
		t.Fatalf("expected change %s, got %s", want, receipt.Change)
	}
	if receipt.PointsEarned != 42 {
		t.Fatalf("expected 42 points, got %d", receipt.PointsEarned)
	}

	if len(custs.accruals) != 1 {
		t.Fatalf("expected one accrual, got %d", len(custs.accruals))
	}
	accrual := custs.accruals[0]
	if accrual.customerID != customerID {
		t.Fatalf("accrual hit wrong customer: %s", accrual.customerID)
	}
	if !accrual.spent.Equal(decimal.RequireFromString("42.70")) {
		t.Fatalf("expected spent 42.70, got %s", accrual.spent)
	}
	if accrual.points != 42 {
		t.Fatalf("expected floor(42.70) = 42 points, got %d", accrual.points)
	}

	if len(txns.created) != 1 {
		t.Fatalf("expected one transaction, got %d", len(txns.created))
	}
	if txns.created[0].Status != enums.TransactionStatusCompleted {
		t.Fatalf("expected completed status, got %s", txns.created[0].Status)
	}
	if len(inv.decrements) != 2 {
		t.Fatalf("expected 2 decrements, got %d", len(inv.decrements))
	}
}

func TestCheckoutInventoryFailureCancelsTransaction(t *testing.T) {
	first := uuid.New()
	short := uuid.New()

	txns := &stubTransactionStore{}
	inv := &stubInventory{shortItemID: short}
	custs := &stubCustomers{}
	svc := newTestService(t, txns, inv, custs)

	customerID := uuid.New()
	_, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines: []cart.Line{
			line(first, "Amber Ale", "4.50", 2),
			line(short, "Single Can Lager", "2.00", 3),
		},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCredit,
		CustomerID:    &customerID,
		CashierID:     uuid.New(),
	})
	if err == nil {
		t.Fatal("expected checkout to fail on short stock")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialFailure {
		t.Fatalf("expected partial failure code, got %v", err)
	}

	// The first line was already applied and stays applied.
	if len(inv.decrements) != 1 || inv.decrements[0].itemID != first {
		t.Fatalf("expected exactly the first line decremented, got %+v", inv.decrements)
	}

	txnID := txns.created[0].ID
	if got := txns.statusUpdates[txnID]; got != enums.TransactionStatusCancelled {
		t.Fatalf("expected transaction marked cancelled, got %q", got)
	}

	if len(custs.accruals) != 0 {
		t.Fatal("loyalty must not accrue on a cancelled checkout")
	}
}

func TestCheckoutAccrualFailureDoesNotFailSale(t *testing.T) {
	txns := &stubTransactionStore{}
	inv := &stubInventory{}
	custs := &stubCustomers{err: errors.New("customers table unavailable")}
	svc := newTestService(t, txns, inv, custs)

	customerID := uuid.New()
	receipt, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines:         []cart.Line{line(uuid.New(), "House Cabernet", "18.00", 1)},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCredit,
		CustomerID:    &customerID,
		CashierID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("accrual failure must not fail the sale: %v", err)
	}
	if receipt.PointsEarned != 0 {
		t.Fatalf("expected zero points reported on accrual failure, got %d", receipt.PointsEarned)
	}
	if txns.created[0].Status != enums.TransactionStatusCompleted {
		t.Fatalf("transaction should stay completed, got %s", txns.created[0].Status)
	}
}

func TestCheckoutRefundRestocksWithoutLoyalty(t *testing.T) {
	txns := &stubTransactionStore{}
	inv := &stubInventory{}
	custs := &stubCustomers{}
	svc := newTestService(t, txns, inv, custs)

	itemID := uuid.New()
	customerID := uuid.New()
	receipt, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines:         []cart.Line{line(itemID, "Botanical Gin", "20.00", 2)},
		Type:          enums.TransactionTypeRefund,
		PaymentMethod: PaymentMethodCash,
		CustomerID:    &customerID,
		CashierID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	if len(inv.increments) != 1 || inv.increments[0].qty != 2 {
		t.Fatalf("expected one increment of 2, got %+v", inv.increments)
	}
	if len(inv.decrements) != 0 {
		t.Fatal("refunds must not decrement stock")
	}
	if len(custs.accruals) != 0 {
		t.Fatal("refunds must not accrue loyalty")
	}
	if receipt.PointsEarned != 0 {
		t.Fatalf("expected zero points on refund, got %d", receipt.PointsEarned)
	}
}

func TestCheckoutRefundRestockFailureCancelsTransaction(t *testing.T) {
	txns := &stubTransactionStore{}
	inv := &stubInventory{restockErr: errors.New("restock rolled back")}
	svc := newTestService(t, txns, inv, &stubCustomers{})

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines: []cart.Line{
			line(uuid.New(), "Botanical Gin", "20.00", 1),
			line(uuid.New(), "Amber Ale", "4.50", 2),
		},
		Type:          enums.TransactionTypeRefund,
		PaymentMethod: PaymentMethodCash,
		CashierID:     uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialFailure {
		t.Fatalf("expected partial failure code, got %v", err)
	}

	// The restock is all or nothing, so no line may have been applied.
	if len(inv.increments) != 0 {
		t.Fatalf("failed restock must leave no increments applied, got %+v", inv.increments)
	}

	txnID := txns.created[0].ID
	if got := txns.statusUpdates[txnID]; got != enums.TransactionStatusCancelled {
		t.Fatalf("expected transaction marked cancelled, got %q", got)
	}
}

func TestCheckoutAcceptsRegisterPaymentMethods(t *testing.T) {
	for _, method := range []string{PaymentMethodCredit, PaymentMethodDebit} {
		t.Run(method, func(t *testing.T) {
			txns := &stubTransactionStore{}
			svc := newTestService(t, txns, &stubInventory{}, &stubCustomers{})

			receipt, err := svc.Checkout(context.Background(), CheckoutInput{
				Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
				Type:          enums.TransactionTypeSale,
				PaymentMethod: method,
				CashierID:     uuid.New(),
			})
			if err != nil {
				t.Fatalf("Checkout: %v", err)
			}
			if receipt.PaymentMethod != method {
				t.Fatalf("expected payment method %q, got %q", method, receipt.PaymentMethod)
			}
			if !receipt.Change.IsZero() {
				t.Fatalf("non-cash sales carry no change, got %s", receipt.Change)
			}
		})
	}
}

func TestCheckoutValidation(t *testing.T) {
	cases := []struct {
		name  string
		input CheckoutInput
	}{
		{
			name: "empty cart",
			input: CheckoutInput{
				Type:          enums.TransactionTypeSale,
				PaymentMethod: PaymentMethodCredit,
				CashierID:     uuid.New(),
			},
		},
		{
			name: "unknown payment method",
			input: CheckoutInput{
				Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
				Type:          enums.TransactionTypeSale,
				PaymentMethod: "check",
				CashierID:     uuid.New(),
			},
		},
		{
			name: "cash sale without tender",
			input: CheckoutInput{
				Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
				Type:          enums.TransactionTypeSale,
				PaymentMethod: PaymentMethodCash,
				CashierID:     uuid.New(),
			},
		},
		{
			name: "insufficient tender",
			input: func() CheckoutInput {
				tendered := decimal.RequireFromString("4.00")
				return CheckoutInput{
					Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
					Type:          enums.TransactionTypeSale,
					PaymentMethod: PaymentMethodCash,
					CashTendered:  &tendered,
					CashierID:     uuid.New(),
				}
			}(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txns := &stubTransactionStore{}
			svc := newTestService(t, txns, &stubInventory{}, &stubCustomers{})

			_, err := svc.Checkout(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(txns.created) != 0 {
				t.Fatal("validation failures must not write transactions")
			}
		})
	}
}

func TestCheckoutRequiresCashier(t *testing.T) {
	txns := &stubTransactionStore{}
	svc := newTestService(t, txns, &stubInventory{}, &stubCustomers{})

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCredit,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCheckoutInsertFailureAborts(t *testing.T) {
	txns := &stubTransactionStore{createErr: errors.New("connection reset")}
	inv := &stubInventory{}
	svc := newTestService(t, txns, inv, &stubCustomers{})

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCredit,
		CashierID:     uuid.New(),
	})
	if err == nil {
		t.Fatal("expected insert failure to abort checkout")
	}
	if len(inv.decrements) != 0 {
		t.Fatal("aborted checkouts must not touch inventory")
	}
}

func TestCheckoutTotalRoundsAtBoundary(t *testing.T) {
	txns := &stubTransactionStore{}
	svc := newTestService(t, txns, &stubInventory{}, &stubCustomers{})

	// 3 at $3.333 is 9.999, recorded as 10.00.
	receipt, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines:         []cart.Line{line(uuid.New(), "Mixer Syrup", "3.333", 3)},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCredit,
		CashierID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if want := decimal.RequireFromString("10.00"); !receipt.Total.Equal(want) {
		t.Fatalf("expected rounded total %s, got %s", want, receipt.Total)
	}
}

func TestCheckoutReceiptTimestamps(t *testing.T) {
	txns := &stubTransactionStore{}
	svc := newTestService(t, txns, &stubInventory{}, &stubCustomers{})

	before := time.Now()
	receipt, err := svc.Checkout(context.Background(), CheckoutInput{
		Lines:         []cart.Line{line(uuid.New(), "Amber Ale", "4.50", 1)},
		Type:          enums.TransactionTypeSale,
		PaymentMethod: PaymentMethodCredit,
		CashierID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if receipt.Date.Before(before) || receipt.Date.After(time.Now()) {
		t.Fatalf("receipt date %s outside checkout window", receipt.Date)
	}
}
