package register

import (
	"github.com/barrelhousehq/barrelhouse-backend/internal/cart"
	"github.com/shopspring/decimal"
)

// CartDTO is the register's view of the session cart. Total is rounded to
// cents for display; the unrounded figure is recomputed at checkout.
type CartDTO struct {
	SessionID string          `json:"session_id"`
	Lines     []cart.Line     `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}

func toCartDTO(sessionID string, c *cart.Cart) *CartDTO {
	return &CartDTO{
		SessionID: sessionID,
		Lines:     c.Lines(),
		Total:     c.Total().Round(2),
	}
}
