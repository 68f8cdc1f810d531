package item

import (
	"context"
	"fmt"

	"github.com/barrelhousehq/barrelhouse-backend/internal/repo"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together item persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByBarcode loads the item carrying the exact barcode.
func (r *Repository) FindByBarcode(ctx context.Context, barcode string) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).First(&item, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update saves the full item row.
func (r *Repository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// List returns every item ordered by the requested column.
func (r *Repository) List(ctx context.Context, orderBy string) ([]models.Item, error) {
	order := "name ASC"
	if orderBy == "rank" {
		order = "rank DESC, name ASC"
	}
	var rows []models.Item
	if err := r.DB(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Search matches a case-insensitive substring against name or barcode.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.Item, error) {
	pattern := "%" + query + "%"
	var rows []models.Item
	err := r.DB(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR barcode LIKE ?", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBelowQuantity returns items at or below the threshold, lowest first.
func (r *Repository) ListBelowQuantity(ctx context.Context, threshold int) ([]models.Item, error) {
	var rows []models.Item
	err := r.DB(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity ASC, name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InventoryValue sums quantity * average_cost across the catalog.
func (r *Repository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.DB(ctx).
		Model(&models.Item{}).
		Select("SUM(quantity * average_cost)").
		Scan(&total).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// DecrementQuantity atomically subtracts stock, guarded so the row is only
// touched when enough stock remains. Returns the number of rows updated; zero
// means the item was missing or short.
func (r *Repository) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Item{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementQuantity atomically adds stock back, used by refunds and manual
// adjustments.
func (r *Repository) IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StockAdjustment pairs an item with a quantity to restore.
type StockAdjustment struct {
	ItemID   uuid.UUID
	Quantity int
}

// RestockAll applies every increment inside one database transaction, so a
// refund restocks all of its lines or none of them.
func (r *Repository) RestockAll(ctx context.Context, adjustments []StockAdjustment) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		bound := r.WithTx(tx)
		for _, adj := range adjustments {
			affected, err := bound.IncrementQuantity(ctx, adj.ItemID, adj.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("no stock row updated for item %s", adj.ItemID)
			}
		}
		return nil
	})
}
