package models

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion discounts matching items while the date window is open.
// ApplicableItems is a comma-separated list of item names, not a foreign key;
// matching is exact and case-sensitive. QuantityNeeded is stored and served
// but not consulted by the pricing engine.
type Promotion struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string              `gorm:"column:name;not null"`
	Type            enums.PromotionType `gorm:"column:type;not null"`
	Value           decimal.Decimal     `gorm:"column:value;type:numeric(12,2);not null"`
	StartDate       time.Time           `gorm:"column:start_date;not null"`
	EndDate         time.Time           `gorm:"column:end_date;not null"`
	ApplicableItems string              `gorm:"column:applicable_items;not null;default:''"`
	QuantityNeeded  int                 `gorm:"column:quantity_needed;not null;default:1"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether now falls inside the promotion's inclusive window.
func (p Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}
