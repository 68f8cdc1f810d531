package models

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the persisted record of one completed register action.
// The Items snapshot must never be mutated after creation.
type Transaction struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Date          time.Time               `gorm:"column:date;not null"`
	Type          enums.TransactionType   `gorm:"column:type;not null"`
	Amount        decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        enums.TransactionStatus `gorm:"column:status;not null;default:'completed'"`
	PaymentMethod string                  `gorm:"column:payment_method;not null"`
	Items         types.TransactionLines  `gorm:"column:items;type:jsonb;serializer:json"`
	CustomerID    *uuid.UUID              `gorm:"column:customer_id;type:uuid"`
	CashierID     uuid.UUID               `gorm:"column:cashier_id;type:uuid;not null"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
