package transaction

import (
	"context"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/internal/repo"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListFilter narrows the transaction history query. Zero values mean "no
// filter".
type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Type   *enums.TransactionType
	Status *enums.TransactionStatus
}

// Row is a transaction joined with the cashier's username and, when present,
// the customer's name.
type Row struct {
	models.Transaction
	CashierUsername string  `gorm:"column:cashier_username"`
	CustomerName    *string `gorm:"column:customer_name"`
}

// Repository wires together transaction persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts the transaction record.
func (r *Repository) Create(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if err := r.DB(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// FindByID loads a single transaction.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.DB(ctx).First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateStatus flips the transaction's status. Used by checkout to mark a
// record cancelled after an inventory failure.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.TransactionStatus) error {
	return r.DB(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// List pages transaction history newest first, keyed on (date, id). The limit
// should already include the lookahead row.
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]Row, error) {
	q := r.DB(ctx).
		Model(&models.Transaction{}).
		Select("transactions.*, users.username AS cashier_username, customers.name AS customer_name").
		Joins("JOIN users ON users.id = transactions.cashier_id").
		Joins("LEFT JOIN customers ON customers.id = transactions.customer_id")

	if filter.From != nil {
		q = q.Where("transactions.date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("transactions.date <= ?", *filter.To)
	}
	if filter.Type != nil {
		q = q.Where("transactions.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		q = q.Where("transactions.status = ?", *filter.Status)
	}
	if cursor != nil {
		q = q.Where(
			"(transactions.date < ?) OR (transactions.date = ? AND transactions.id < ?)",
			cursor.Date, cursor.Date, cursor.ID,
		)
	}

	var rows []Row
	err := q.Order("transactions.date DESC, transactions.id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumCompletedSales totals completed sale amounts inside [from, to).
func (r *Repository) SumCompletedSales(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.DB(ctx).
		Model(&models.Transaction{}).
		Select("SUM(amount)").
		Where("type = ? AND status = ?", enums.TransactionTypeSale, enums.TransactionStatusCompleted).
		Where("date >= ? AND date < ?", from, to).
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

// CountCompletedSales counts completed sales inside [from, to).
func (r *Repository) CountCompletedSales(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Transaction{}).
		Where("type = ? AND status = ?", enums.TransactionTypeSale, enums.TransactionStatusCompleted).
		Where("date >= ? AND date < ?", from, to).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
