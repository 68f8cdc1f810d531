package promotion

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionDTO is the wire shape for a promotion. Active reflects the date
// window at serialization time.
type PromotionDTO struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Type            enums.PromotionType `json:"type"`
	Value           decimal.Decimal     `json:"value"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	ApplicableItems string              `json:"applicable_items"`
	QuantityNeeded  int                 `json:"quantity_needed"`
	Active          bool                `json:"active"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toPromotionDTO(m *models.Promotion, now time.Time) *PromotionDTO {
	if m == nil {
		return nil
	}
	return &PromotionDTO{
		ID:              m.ID,
		Name:            m.Name,
		Type:            m.Type,
		Value:           m.Value,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		ApplicableItems: m.ApplicableItems,
		QuantityNeeded:  m.QuantityNeeded,
		Active:          m.ActiveAt(now),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toPromotionDTOs(rows []models.Promotion, now time.Time) []PromotionDTO {
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toPromotionDTO(&rows[i], now))
	}
	return out
}
