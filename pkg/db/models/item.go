package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item represents one sellable product on the shelf. Quantity is mutated only
// by checkout (decrement on sale, increment on refund) or a manual adjustment;
// items are never deleted through an exposed flow.
type Item struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Barcode      string          `gorm:"column:barcode;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	CaseQuantity int             `gorm:"column:case_quantity;not null;default:0"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	AverageCost  decimal.Decimal `gorm:"column:average_cost;type:numeric(12,2);not null;default:0"`
	Margin       decimal.Decimal `gorm:"column:margin;type:numeric(6,2);not null;default:0"`
	Size         string          `gorm:"column:size"`
	Category     string          `gorm:"column:category"`
	Supplier     string          `gorm:"column:supplier"`
	UnitsPerCase int             `gorm:"column:units_per_case;not null;default:0"`
	CaseCost     decimal.Decimal `gorm:"column:case_cost;type:numeric(12,2);not null;default:0"`
	Rank         int             `gorm:"column:rank;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
