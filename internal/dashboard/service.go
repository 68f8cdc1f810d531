package dashboard

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type salesReader interface {
	SumCompletedSales(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountCompletedSales(ctx context.Context, from, to time.Time) (int64, error)
}

type inventoryValuer interface {
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}

type customerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// MetricsDTO is the storefront overview served to the dashboard.
type MetricsDTO struct {
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	// RevenueChangePercent compares this calendar month against the last.
	// Nil when last month had no revenue to compare against.
	RevenueChangePercent *decimal.Decimal `json:"revenue_change_percent"`
	InventoryValue       decimal.Decimal  `json:"inventory_value"`
	SalesLastHour        int64            `json:"sales_last_hour"`
	CustomerCount        int64            `json:"customer_count"`
}

// Service aggregates the storefront overview numbers.
type Service interface {
	Metrics(ctx context.Context) (*MetricsDTO, error)
}

type service struct {
	sales     salesReader
	inventory inventoryValuer
	customers customerCounter
	now       func() time.Time
}

// NewService constructs a dashboard service instance.
func NewService(sales salesReader, inventory inventoryValuer, customers customerCounter) (Service, error) {
	if sales == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{
		sales:     sales,
		inventory: inventory,
		customers: customers,
		now:       time.Now,
	}, nil
}

// Metrics collects the four overview numbers in one call. Revenue windows are
// calendar months in the server's local time.
func (s *service) Metrics(ctx context.Context) (*MetricsDTO, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	current, err := s.sales.SumCompletedSales(ctx, monthStart, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to sum monthly revenue")
	}
	previous, err := s.sales.SumCompletedSales(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to sum prior month revenue")
	}

	inventoryValue, err := s.inventory.InventoryValue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to value inventory")
	}

	lastHour, err := s.sales.CountCompletedSales(ctx, now.Add(-time.Hour), now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count recent sales")
	}

	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count customers")
	}

	return &MetricsDTO{
		MonthlyRevenue:       current,
		RevenueChangePercent: revenueChange(current, previous),
		InventoryValue:       inventoryValue,
		SalesLastHour:        lastHour,
		CustomerCount:        customerCount,
	}, nil
}

func revenueChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	change := current.Sub(previous).Div(previous).Mul(oneHundred).Round(2)
	return &change
}
