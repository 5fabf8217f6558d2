package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
)

// User represents the canonical identity entity. Email is stored lowercase and
// trimmed; uniqueness is enforced on that normalized form.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	DisplayName  string         `gorm:"column:display_name;not null"`
	AvatarURL    string         `gorm:"column:avatar_url;not null"`
	Language     enums.Language `gorm:"column:language;type:text;not null;default:'en'"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
