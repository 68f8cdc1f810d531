package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/internal/cart"
	"github.com/barrelhousehq/barrelhouse-backend/internal/items"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/logger"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/metrics"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Payment methods offered at the register. Only cash carries the tendered
// amount precondition.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCredit = "credit"
	PaymentMethodDebit  = "debit"
)

type transactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TransactionStatus) error
}

type inventoryAdjuster interface {
	DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error)
	RestockAll(ctx context.Context, adjustments []item.StockAdjustment) error
}

type loyaltyAccruer interface {
	IncrementStats(ctx context.Context, id uuid.UUID, spent decimal.Decimal, points int) (int64, error)
}

// Service finalizes register carts into transactions.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*ReceiptDTO, error)
}

// CheckoutInput is the finalized register state handed to checkout. Lines
// come from the register cart; prices were locked at scan time.
type CheckoutInput struct {
	Lines         []cart.Line
	Type          enums.TransactionType
	PaymentMethod string
	CashTendered  *decimal.Decimal
	CustomerID    *uuid.UUID
	CashierID     uuid.UUID
}

type service struct {
	transactions transactionStore
	inventory    inventoryAdjuster
	customers    loyaltyAccruer
	logg         *logger.Logger
	metrics      *metrics.CheckoutMetrics
	now          func() time.Time
}

// NewService constructs a checkout service instance.
func NewService(transactions transactionStore, inventory inventoryAdjuster, customers loyaltyAccruer, logg *logger.Logger, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if transactions == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		transactions: transactions,
		inventory:    inventory,
		customers:    customers,
		logg:         logg,
		metrics:      checkoutMetrics,
		now:          time.Now,
	}, nil
}

// Checkout runs the register finalization sequence: record the transaction,
// then adjust stock, then accrue loyalty. The transaction insert is the point
// of no return. A stock adjustment failure after it compensates by marking
// the record cancelled and surfaces a partial failure; on a sale, lines
// applied before the failing one stay applied. A loyalty failure after a
// completed sale is logged and counted but never fails the sale.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*ReceiptDTO, error) {
	total, change, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:            uuid.New(),
		Date:          s.now(),
		Type:          input.Type,
		Amount:        total,
		Status:        enums.TransactionStatusCompleted,
		PaymentMethod: input.PaymentMethod,
		Items:         toTransactionLines(input.Lines),
		CustomerID:    input.CustomerID,
		CashierID:     input.CashierID,
	}
	if _, err := s.transactions.Create(ctx, txn); err != nil {
		s.metrics.IncAborted()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record transaction")
	}

	if err := s.adjustInventory(ctx, txn, input); err != nil {
		return nil, err
	}

	points := s.accrueLoyalty(ctx, txn, input, total)

	s.metrics.IncCompleted(input.Type.String())
	return &ReceiptDTO{
		TransactionID: txn.ID,
		Date:          txn.Date,
		Type:          txn.Type,
		Total:         total,
		Change:        change,
		PaymentMethod: txn.PaymentMethod,
		Items:         txn.Items,
		CustomerID:    input.CustomerID,
		PointsEarned:  points,
	}, nil
}

func (s *service) validate(input CheckoutInput) (total, change decimal.Decimal, err error) {
	if input.CashierID == uuid.Nil {
		return total, change, pkgerrors.New(pkgerrors.CodeUnauthorized, "cashier identity required")
	}
	if len(input.Lines) == 0 {
		return total, change, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !input.Type.IsValid() {
		return total, change, pkgerrors.New(pkgerrors.CodeValidation, "type must be sale or refund")
	}
	switch input.PaymentMethod {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodDebit:
	default:
		return total, change, pkgerrors.New(pkgerrors.CodeValidation, "payment_method must be cash, credit, or debit")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return total, change, pkgerrors.New(pkgerrors.CodeValidation, "line quantities must be positive")
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	total = total.Round(2)

	if input.Type == enums.TransactionTypeSale && input.PaymentMethod == PaymentMethodCash {
		if input.CashTendered == nil {
			return total, change, pkgerrors.New(pkgerrors.CodeValidation, "cash_tendered is required for cash sales")
		}
		if input.CashTendered.LessThan(total) {
			return total, change, pkgerrors.New(pkgerrors.CodeValidation, "cash_tendered is less than the total")
		}
		change = input.CashTendered.Sub(total)
	}
	return total, change, nil
}

// adjustInventory applies the stock movement for the recorded transaction.
// Refunds restock all lines inside one database transaction; sales decrement
// line by line with a sufficient-stock guard.
func (s *service) adjustInventory(ctx context.Context, txn *models.Transaction, input CheckoutInput) error {
	if input.Type == enums.TransactionTypeRefund {
		adjustments := make([]item.StockAdjustment, 0, len(input.Lines))
		for _, line := range input.Lines {
			adjustments = append(adjustments, item.StockAdjustment{ItemID: line.ItemID, Quantity: line.Quantity})
		}
		if err := s.inventory.RestockAll(ctx, adjustments); err != nil {
			return s.compensate(ctx, txn, err, nil)
		}
		return nil
	}

	for _, line := range input.Lines {
		affected, err := s.inventory.DecrementQuantity(ctx, line.ItemID, line.Quantity)
		if err == nil && affected == 0 {
			err = fmt.Errorf("no stock row updated for item %s", line.ItemID)
		}
		if err != nil {
			return s.compensate(ctx, txn, err, map[string]any{
				"failed_item_id": line.ItemID,
				"failed_item":    line.Name,
			})
		}
	}
	return nil
}

// compensate marks the already-inserted transaction cancelled. The mark is
// best effort; if it also fails, both errors travel up together.
func (s *service) compensate(ctx context.Context, txn *models.Transaction, cause error, details map[string]any) error {
	s.metrics.IncCancelled()
	combined := cause
	if err := s.transactions.UpdateStatus(ctx, txn.ID, enums.TransactionStatusCancelled); err != nil {
		combined = multierr.Append(combined, fmt.Errorf("marking transaction cancelled: %w", err))
		s.logg.Error(ctx, "failed to cancel transaction after inventory failure", err)
	}

	if details == nil {
		details = map[string]any{}
	}
	details["transaction_id"] = txn.ID
	return pkgerrors.Wrap(pkgerrors.CodePartialFailure, combined, "inventory update failed during checkout").
		WithDetails(details)
}

// accrueLoyalty bumps the customer's stats after a completed sale. Points are
// the whole-dollar floor of the total. Refunds and walk-in sales accrue
// nothing.
func (s *service) accrueLoyalty(ctx context.Context, txn *models.Transaction, input CheckoutInput, total decimal.Decimal) int {
	if input.Type != enums.TransactionTypeSale || input.CustomerID == nil {
		return 0
	}
	points := int(total.IntPart())
	if points < 0 {
		points = 0
	}

	affected, err := s.customers.IncrementStats(ctx, *input.CustomerID, total, points)
	if err == nil && affected == 0 {
		err = fmt.Errorf("customer %s not found", *input.CustomerID)
	}
	if err != nil {
		s.metrics.IncAccrualFailure()
		lctx := s.logg.WithFields(ctx, map[string]any{
			"transaction_id": txn.ID,
			"customer_id":    input.CustomerID,
		})
		s.logg.Error(lctx, "loyalty accrual failed after completed sale", err)
		return 0
	}
	return points
}

func toTransactionLines(lines []cart.Line) types.TransactionLines {
	out := make(types.TransactionLines, 0, len(lines))
	for _, line := range lines {
		out = append(out, types.TransactionLine{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}
	return out
}
