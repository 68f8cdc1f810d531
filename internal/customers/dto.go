package customer

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerDTO is the wire shape for a loyalty customer.
type CustomerDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         *string         `json:"email,omitempty"`
	LoyaltyPoints int             `json:"loyalty_points"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func toCustomerDTO(m *models.Customer) *CustomerDTO {
	if m == nil {
		return nil
	}
	return &CustomerDTO{
		ID:            m.ID,
		Name:          m.Name,
		Phone:         m.Phone,
		Email:         m.Email,
		LoyaltyPoints: m.LoyaltyPoints,
		TotalSpent:    m.TotalSpent,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toCustomerDTOs(rows []models.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toCustomerDTO(&rows[i]))
	}
	return out
}
