package item

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is the wire shape for a shelf item.
type ItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	CaseQuantity int             `json:"case_quantity"`
	Price        decimal.Decimal `json:"price"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	Margin       decimal.Decimal `json:"margin"`
	Size         string          `json:"size,omitempty"`
	Category     string          `json:"category,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	UnitsPerCase int             `json:"units_per_case"`
	CaseCost     decimal.Decimal `json:"case_cost"`
	Rank         int             `json:"rank"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toItemDTO(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:           m.ID,
		Barcode:      m.Barcode,
		Name:         m.Name,
		Quantity:     m.Quantity,
		CaseQuantity: m.CaseQuantity,
		Price:        m.Price,
		AverageCost:  m.AverageCost,
		Margin:       m.Margin,
		Size:         m.Size,
		Category:     m.Category,
		Supplier:     m.Supplier,
		UnitsPerCase: m.UnitsPerCase,
		CaseCost:     m.CaseCost,
		Rank:         m.Rank,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toItemDTOs(rows []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toItemDTO(&rows[i]))
	}
	return out
}
