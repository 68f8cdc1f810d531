package models

import (
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents a staff login. PasswordHash is always an argon2id string;
// there is exactly one hashing and verification path.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string         `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
