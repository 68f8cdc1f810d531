package checkout

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptDTO is returned to the register after a successful checkout.
type ReceiptDTO struct {
	TransactionID uuid.UUID              `json:"transaction_id"`
	Date          time.Time              `json:"date"`
	Type          enums.TransactionType  `json:"type"`
	Total         decimal.Decimal        `json:"total"`
	Change        decimal.Decimal        `json:"change"`
	PaymentMethod string                 `json:"payment_method"`
	Items         types.TransactionLines `json:"items"`
	CustomerID    *uuid.UUID             `json:"customer_id,omitempty"`
	PointsEarned  int                    `json:"points_earned"`
}
