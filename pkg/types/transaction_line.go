package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionLine is the denormalized snapshot of one sold line item. It is
// copied off the cart at checkout and never re-reads the items table, so the
// historical record survives later price or name edits.
type TransactionLine struct {
	ItemID   uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// TransactionLines exists so the slice can carry a gorm jsonb serializer tag.
type TransactionLines []TransactionLine
