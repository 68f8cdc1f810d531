package item

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/config"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	pkgerrors "github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const searchLimit = 25

// Service exposes inventory management operations.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	GetItemByBarcode(ctx context.Context, barcode string) (*ItemDTO, error)
	ListItems(ctx context.Context, orderBy string) ([]ItemDTO, error)
	SearchItems(ctx context.Context, query string) ([]ItemDTO, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*ItemDTO, error)
	LowStockItems(ctx context.Context) ([]ItemDTO, error)
}

// CreateItemInput holds the validated payload to create an item.
type CreateItemInput struct {
	Barcode      string
	Name         string
	Quantity     int
	CaseQuantity int
	Price        decimal.Decimal
	AverageCost  decimal.Decimal
	Margin       decimal.Decimal
	Size         string
	Category     string
	Supplier     string
	UnitsPerCase int
	CaseCost     decimal.Decimal
	Rank         int
}

// UpdateItemInput holds optional mutation values for an item. Nil fields are
// left untouched.
type UpdateItemInput struct {
	Barcode      *string
	Name         *string
	Quantity     *int
	CaseQuantity *int
	Price        *decimal.Decimal
	AverageCost  *decimal.Decimal
	Margin       *decimal.Decimal
	Size         *string
	Category     *string
	Supplier     *string
	UnitsPerCase *int
	CaseCost     *decimal.Decimal
	Rank         *int
}

type service struct {
	repo *Repository
	cfg  config.InventoryConfig
}

// NewService constructs an item service instance.
func NewService(repo *Repository, cfg config.InventoryConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// CreateItem inserts a new shelf item. A duplicate barcode surfaces as a
// conflict.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if strings.TrimSpace(input.Barcode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item := &models.Item{
		ID:           uuid.New(),
		Barcode:      strings.TrimSpace(input.Barcode),
		Name:         strings.TrimSpace(input.Name),
		Quantity:     input.Quantity,
		CaseQuantity: input.CaseQuantity,
		Price:        input.Price,
		AverageCost:  input.AverageCost,
		Margin:       input.Margin,
		Size:         input.Size,
		Category:     input.Category,
		Supplier:     input.Supplier,
		UnitsPerCase: input.UnitsPerCase,
		CaseCost:     input.CaseCost,
		Rank:         input.Rank,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an item with this barcode already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create item")
	}
	return toItemDTO(created), nil
}

// UpdateItem applies the provided fields to the stored item.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "item")
	}

	if input.Barcode != nil {
		if strings.TrimSpace(*input.Barcode) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode cannot be empty")
		}
		item.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		item.Quantity = *input.Quantity
	}
	if input.CaseQuantity != nil {
		item.CaseQuantity = *input.CaseQuantity
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		item.Price = *input.Price
	}
	if input.AverageCost != nil {
		item.AverageCost = *input.AverageCost
	}
	if input.Margin != nil {
		item.Margin = *input.Margin
	}
	if input.Size != nil {
		item.Size = *input.Size
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Supplier != nil {
		item.Supplier = *input.Supplier
	}
	if input.UnitsPerCase != nil {
		item.UnitsPerCase = *input.UnitsPerCase
	}
	if input.CaseCost != nil {
		item.CaseCost = *input.CaseCost
	}
	if input.Rank != nil {
		item.Rank = *input.Rank
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an item with this barcode already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update item")
	}
	return toItemDTO(updated), nil
}

// GetItem loads one item by id.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "item")
	}
	return toItemDTO(item), nil
}

// GetItemByBarcode loads one item by its exact barcode. This is the scan path
// at the register.
func (s *service) GetItemByBarcode(ctx context.Context, barcode string) (*ItemDTO, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	item, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, notFoundOrInternal(err, "item")
	}
	return toItemDTO(item), nil
}

// ListItems returns the full catalog ordered by name or rank.
func (s *service) ListItems(ctx context.Context, orderBy string) ([]ItemDTO, error) {
	switch orderBy {
	case "", "name", "rank":
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_by must be name or rank")
	}
	rows, err := s.repo.List(ctx, orderBy)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list items")
	}
	return toItemDTOs(rows), nil
}

// SearchItems matches a substring against item names and barcodes.
func (s *service) SearchItems(ctx context.Context, query string) ([]ItemDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	rows, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to search items")
	}
	return toItemDTOs(rows), nil
}

// AdjustQuantity applies a signed stock delta. Negative deltas use the guarded
// decrement so stock never goes below zero.
func (s *service) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*ItemDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	var (
		affected int64
		err      error
	)
	if delta > 0 {
		affected, err = s.repo.IncrementQuantity(ctx, id, delta)
	} else {
		affected, err = s.repo.DecrementQuantity(ctx, id, -delta)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to adjust quantity")
	}
	if affected == 0 {
		if delta < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for adjustment")
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "item")
	}
	return toItemDTO(item), nil
}

// LowStockItems returns items at or below the configured threshold.
func (s *service) LowStockItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.ListBelowQuantity(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list low stock items")
	}
	return toItemDTOs(rows), nil
}

func notFoundOrInternal(err error, resource string) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load "+resource)
}
