package register

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/internal/cart"
	"github.com/barrelhousehq/barrelhouse-backend/internal/checkout"
	"github.com/barrelhousehq/barrelhouse-backend/internal/pricing"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type itemReader interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type activePromotionLister interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

type cartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// Service drives the register workflow: scan items into the session cart,
// adjust quantities, and finalize through checkout. Prices are locked at scan
// time from the promotion window in effect.
type Service interface {
	Scan(ctx context.Context, sessionID, barcode string) (*CartDTO, error)
	AddItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*CartDTO, error)
	SetQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*CartDTO, error)
	View(ctx context.Context, sessionID string) (*CartDTO, error)
	Clear(ctx context.Context, sessionID string) error
	Finalize(ctx context.Context, sessionID string, input FinalizeInput) (*checkout.ReceiptDTO, error)
}

// FinalizeInput carries the payment details for checkout. The cart itself is
// loaded from the register session.
type FinalizeInput struct {
	Type          enums.TransactionType
	PaymentMethod string
	CashTendered  *decimal.Decimal
	CustomerID    *uuid.UUID
	CashierID     uuid.UUID
}

type service struct {
	items      itemReader
	promotions activePromotionLister
	store      cartStore
	checkout   checkout.Service
	engine     pricing.Engine
	now        func() time.Time
}

// NewService constructs a register service instance.
func NewService(items itemReader, promotions activePromotionLister, store cartStore, checkoutService checkout.Service) (Service, error) {
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if promotions == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if checkoutService == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	return &service{
		items:      items,
		promotions: promotions,
		store:      store,
		checkout:   checkoutService,
		engine:     pricing.NewEngine(),
		now:        time.Now,
	}, nil
}

// Scan looks up the barcode, prices the item against active promotions, and
// adds one unit to the session cart.
func (s *service) Scan(ctx context.Context, sessionID, barcode string) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	item, err := s.items.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, itemNotFoundOrInternal(err)
	}
	return s.addPriced(ctx, sessionID, item)
}

// AddItem adds one unit by item id, the non-scan path for the on-screen
// catalog.
func (s *service) AddItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, itemNotFoundOrInternal(err)
	}
	return s.addPriced(ctx, sessionID, item)
}

func (s *service) addPriced(ctx context.Context, sessionID string, item *models.Item) (*CartDTO, error) {
	promos, err := s.promotions.ListActive(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load active promotions")
	}
	price := s.engine.EffectiveUnitPrice(*item, promos)

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Add(item.ID, item.Name, price)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return toCartDTO(sessionID, c), nil
}

// SetQuantity replaces a line's quantity. Zero removes the line.
func (s *service) SetQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.SetQuantity(itemID, quantity)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return toCartDTO(sessionID, c), nil
}

// RemoveItem deletes a line entirely.
func (s *service) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*CartDTO, error) {
	return s.SetQuantity(ctx, sessionID, itemID, 0)
}

// View returns the current session cart.
func (s *service) View(ctx context.Context, sessionID string) (*CartDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toCartDTO(sessionID, c), nil
}

// Clear voids the session cart without recording anything.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	return s.store.Clear(ctx, sessionID)
}

// Finalize hands the session cart to checkout and clears it on success. The
// cart survives a failed checkout so the cashier can retry or void.
func (s *service) Finalize(ctx context.Context, sessionID string, input FinalizeInput) (*checkout.ReceiptDTO, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.checkout.Checkout(ctx, checkout.CheckoutInput{
		Lines:         c.Lines(),
		Type:          input.Type,
		PaymentMethod: input.PaymentMethod,
		CashTendered:  input.CashTendered,
		CustomerID:    input.CustomerID,
		CashierID:     input.CashierID,
	})
	if err != nil {
		return nil, err
	}

	// The sale is already recorded; a stale cart is recoverable, so a failed
	// clear does not fail the checkout.
	_ = s.store.Clear(ctx, sessionID)
	return receipt, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "register session id is required")
	}
	return nil
}

func itemNotFoundOrInternal(err error) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load item")
}
