package register

import (
	"context"
	"testing"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/internal/cart"
	"github.com/barrelhousehq/barrelhouse-backend/internal/checkout"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubItems struct {
	byBarcode map[string]*models.Item
	byID      map[uuid.UUID]*models.Item
}

func (s *stubItems) FindByBarcode(_ context.Context, barcode string) (*models.Item, error) {
	if item, ok := s.byBarcode[barcode]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubItems) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	if item, ok := s.byID[id]; ok {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubPromotions struct {
	active []models.Promotion
}

func (s *stubPromotions) ListActive(_ context.Context, _ time.Time) ([]models.Promotion, error) {
	return s.active, nil
}

type memoryStore struct {
	carts map[string][]cart.Line
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: map[string][]cart.Line{}}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	return cart.FromLines(s.carts[sessionID]), nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	s.carts[sessionID] = c.Lines()
	return nil
}

func (s *memoryStore) Clear(_ context.Context, sessionID string) error {
	delete(s.carts, sessionID)
	return nil
}

type stubCheckout struct {
	inputs []checkout.CheckoutInput
	err    error
}

func (s *stubCheckout) Checkout(_ context.Context, input checkout.CheckoutInput) (*checkout.ReceiptDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.inputs = append(s.inputs, input)
	return &checkout.ReceiptDTO{TransactionID: uuid.New()}, nil
}

func testItem(barcode, name, price string) *models.Item {
	return &models.Item{
		ID:      uuid.New(),
		Barcode: barcode,
		Name:    name,
		Price:   decimal.RequireFromString(price),
	}
}

func newTestService(t *testing.T, items *stubItems, promos *stubPromotions, store cartStore, co checkout.Service) Service {
	t.Helper()
	svc, err := NewService(items, promos, store, co)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestScanLocksPromotionPrice(t *testing.T) {
	item := testItem("012345678905", "House Cabernet", "20.00")
	items := &stubItems{byBarcode: map[string]*models.Item{item.Barcode: item}}
	promos := &stubPromotions{active: []models.Promotion{{
		Name:            "Wine Weekend",
		Type:            enums.PromotionTypePercentage,
		Value:           decimal.RequireFromString("10"),
		ApplicableItems: "House Cabernet",
	}}}
	svc := newTestService(t, items, promos, newMemoryStore(), &stubCheckout{})

	dto, err := svc.Scan(context.Background(), "reg-1", item.Barcode)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(dto.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(dto.Lines))
	}
	if want := decimal.RequireFromString("18.00"); !dto.Lines[0].UnitPrice.Equal(want) {
		t.Fatalf("expected promo price %s, got %s", want, dto.Lines[0].UnitPrice)
	}
	if !dto.Total.Equal(decimal.RequireFromString("18.00")) {
		t.Fatalf("unexpected total %s", dto.Total)
	}
}

func TestScanUnknownBarcode(t *testing.T) {
	svc := newTestService(t, &stubItems{}, &stubPromotions{}, newMemoryStore(), &stubCheckout{})

	_, err := svc.Scan(context.Background(), "reg-1", "000000000000")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestScanTwiceIncrementsLine(t *testing.T) {
	item := testItem("012345678905", "Amber Ale", "4.50")
	items := &stubItems{byBarcode: map[string]*models.Item{item.Barcode: item}}
	svc := newTestService(t, items, &stubPromotions{}, newMemoryStore(), &stubCheckout{})

	ctx := context.Background()
	if _, err := svc.Scan(ctx, "reg-1", item.Barcode); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	dto, err := svc.Scan(ctx, "reg-1", item.Barcode)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}

	if len(dto.Lines) != 1 || dto.Lines[0].Quantity != 2 {
		t.Fatalf("expected single line of quantity 2, got %+v", dto.Lines)
	}
	if !dto.Total.Equal(decimal.RequireFromString("9.00")) {
		t.Fatalf("unexpected total %s", dto.Total)
	}
}

func TestFinalizeClearsCart(t *testing.T) {
	item := testItem("012345678905", "Amber Ale", "4.50")
	items := &stubItems{byBarcode: map[string]*models.Item{item.Barcode: item}}
	store := newMemoryStore()
	co := &stubCheckout{}
	svc := newTestService(t, items, &stubPromotions{}, store, co)

	ctx := context.Background()
	if _, err := svc.Scan(ctx, "reg-1", item.Barcode); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	cashier := uuid.New()
	if _, err := svc.Finalize(ctx, "reg-1", FinalizeInput{
		Type:          enums.TransactionTypeSale,
		PaymentMethod: checkout.PaymentMethodCredit,
		CashierID:     cashier,
	}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if len(co.inputs) != 1 || co.inputs[0].CashierID != cashier {
		t.Fatalf("checkout received wrong input: %+v", co.inputs)
	}
	if len(co.inputs[0].Lines) != 1 {
		t.Fatalf("expected cart lines forwarded, got %+v", co.inputs[0].Lines)
	}

	dto, err := svc.View(ctx, "reg-1")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatal("cart should be empty after a finalized checkout")
	}
}

func TestFinalizeKeepsCartOnFailure(t *testing.T) {
	item := testItem("012345678905", "Amber Ale", "4.50")
	items := &stubItems{byBarcode: map[string]*models.Item{item.Barcode: item}}
	store := newMemoryStore()
	co := &stubCheckout{err: pkgerrors.New(pkgerrors.CodePartialFailure, "inventory update failed during checkout")}
	svc := newTestService(t, items, &stubPromotions{}, store, co)

	ctx := context.Background()
	if _, err := svc.Scan(ctx, "reg-1", item.Barcode); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, err := svc.Finalize(ctx, "reg-1", FinalizeInput{
		Type:          enums.TransactionTypeSale,
		PaymentMethod: checkout.PaymentMethodCredit,
		CashierID:     uuid.New(),
	}); err == nil {
		t.Fatal("expected finalize to propagate checkout failure")
	}

	dto, err := svc.View(ctx, "reg-1")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	item := testItem("012345678905", "Amber Ale", "4.50")
	items := &stubItems{
		byBarcode: map[string]*models.Item{item.Barcode: item},
		byID:      map[uuid.UUID]*models.Item{item.ID: item},
	}
	svc := newTestService(t, items, &stubPromotions{}, newMemoryStore(), &stubCheckout{})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, "reg-1", item.ID); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	dto, err := svc.SetQuantity(ctx, "reg-1", item.ID, 0)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", dto.Lines)
	}
}
