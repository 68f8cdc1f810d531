package auth

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the wire shape for a staff user. The password hash never leaves
// the service layer.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Username  string         `json:"username"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

// SessionDTO carries the token pair issued on login and refresh.
type SessionDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

func toUserDTO(m *models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Username:  m.Username,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

func toUserDTOs(rows []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toUserDTO(&rows[i]))
	}
	return out
}
