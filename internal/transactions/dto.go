package transaction

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDTO is the wire shape for one history row.
type TransactionDTO struct {
	ID              uuid.UUID               `json:"id"`
	Date            time.Time               `json:"date"`
	Type            enums.TransactionType   `json:"type"`
	Amount          decimal.Decimal         `json:"amount"`
	Status          enums.TransactionStatus `json:"status"`
	PaymentMethod   string                  `json:"payment_method"`
	Items           types.TransactionLines  `json:"items"`
	CustomerID      *uuid.UUID              `json:"customer_id,omitempty"`
	CustomerName    *string                 `json:"customer_name,omitempty"`
	CashierID       uuid.UUID               `json:"cashier_id"`
	CashierUsername string                  `json:"cashier_username"`
	CreatedAt       time.Time               `json:"created_at"`
}

// Page is one page of transaction history plus the cursor for the next.
type Page struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

func toTransactionDTO(row Row) TransactionDTO {
	return TransactionDTO{
		ID:              row.ID,
		Date:            row.Date,
		Type:            row.Type,
		Amount:          row.Amount,
		Status:          row.Status,
		PaymentMethod:   row.PaymentMethod,
		Items:           row.Items,
		CustomerID:      row.CustomerID,
		CustomerName:    row.CustomerName,
		CashierID:       row.CashierID,
		CashierUsername: row.CashierUsername,
		CreatedAt:       row.CreatedAt,
	}
}
