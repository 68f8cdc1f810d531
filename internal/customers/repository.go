package customer

import (
	"context"

	"github.com/barrelhousehq/barrelhouse-backend/internal/repo"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together customer persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByID loads a single customer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Update saves the full customer row.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Customer{}).Error
}

// List returns every customer ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Search matches a case-insensitive substring against name, phone, or email.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	pattern := "%" + query + "%"
	var rows []models.Customer
	err := r.DB(ctx).
		Where(
			"LOWER(name) LIKE LOWER(?) OR phone LIKE ? OR LOWER(COALESCE(email, '')) LIKE LOWER(?)",
			pattern, pattern, pattern,
		).
		Order("name ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementStats atomically bumps total_spent and loyalty_points for a
// completed sale.
func (r *Repository) IncrementStats(ctx context.Context, id uuid.UUID, spent decimal.Decimal, points int) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_spent":    gorm.Expr("total_spent + ?", spent),
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count returns the total number of customers.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Customer{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
