package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	"github.com/ananyakrishnan/safarnama-backend/pkg/types"
)

// Trip is one journal chronicle. The day timeline lives in a single document
// column; writes are read-modify-write on the whole row, last write wins.
// TitlePlaceholder and LocationPlaceholder track whether the system-assigned
// defaults are still in place; suggestions from dictation apply only while the
// matching flag is set.
type Trip struct {
	ID                  uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Title               string               `gorm:"column:title;not null"`
	TitlePlaceholder    bool                 `gorm:"column:title_placeholder;not null;default:true"`
	Location            string               `gorm:"column:location;not null"`
	LocationPlaceholder bool                 `gorm:"column:location_placeholder;not null;default:true"`
	CoverImageURL       *string              `gorm:"column:cover_image_url"`
	Visibility          enums.TripVisibility `gorm:"column:visibility;type:text;not null;default:'private'"`
	Status              enums.TripStatus     `gorm:"column:status;type:text;not null;default:'active'"`
	StartDate           time.Time            `gorm:"column:start_date;not null"`
	Days                types.Days           `gorm:"column:days;type:jsonb;serializer:json;not null"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
