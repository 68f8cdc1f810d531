package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type stubSales struct {
	sums   map[string]decimal.Decimal
	counts int64
}

func (s *stubSales) SumCompletedSales(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	key := from.Format("2006-01") + "|" + to.Format("2006-01")
	if v, ok := s.sums[key]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

func (s *stubSales) CountCompletedSales(_ context.Context, _, _ time.Time) (int64, error) {
	return s.counts, nil
}

type stubInventory struct{ value decimal.Decimal }

func (s *stubInventory) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	return s.value, nil
}

type stubCustomers struct{ count int64 }

func (s *stubCustomers) Count(_ context.Context) (int64, error) {
	return s.count, nil
}

func TestMetricsRevenueChange(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	sales := &stubSales{
		sums: map[string]decimal.Decimal{
			monthStart.Format("2006-01") + "|" + now.Format("2006-01"):      decimal.RequireFromString("1200"),
			prevStart.Format("2006-01") + "|" + monthStart.Format("2006-01"): decimal.RequireFromString("1000"),
		},
		counts: 7,
	}
	svc, err := NewService(sales, &stubInventory{value: decimal.RequireFromString("5400.25")}, &stubCustomers{count: 31})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }

	got, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}

	if !got.MonthlyRevenue.Equal(decimal.RequireFromString("1200")) {
		t.Fatalf("unexpected monthly revenue %s", got.MonthlyRevenue)
	}
	if got.RevenueChangePercent == nil || !got.RevenueChangePercent.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("expected +20%% change, got %v", got.RevenueChangePercent)
	}
	if !got.InventoryValue.Equal(decimal.RequireFromString("5400.25")) {
		t.Fatalf("unexpected inventory value %s", got.InventoryValue)
	}
	if got.SalesLastHour != 7 {
		t.Fatalf("unexpected sales last hour %d", got.SalesLastHour)
	}
	if got.CustomerCount != 31 {
		t.Fatalf("unexpected customer count %d", got.CustomerCount)
	}
}

func TestMetricsNoPriorRevenue(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	sales := &stubSales{
		sums: map[string]decimal.Decimal{
			monthStart.Format("2006-01") + "|" + now.Format("2006-01"): decimal.RequireFromString("300"),
		},
	}
	svc, err := NewService(sales, &stubInventory{}, &stubCustomers{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }

	got, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if got.RevenueChangePercent != nil {
		t.Fatalf("expected nil change with no prior revenue, got %v", got.RevenueChangePercent)
	}
}
