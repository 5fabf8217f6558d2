package trips

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	"github.com/ananyakrishnan/safarnama-backend/pkg/types"
)

// TripDTO is the full trip projection, day timeline included.
type TripDTO struct {
	ID                  uuid.UUID            `json:"id"`
	Title               string               `json:"title"`
	TitlePlaceholder    bool                 `json:"title_placeholder"`
	Location            string               `json:"location"`
	LocationPlaceholder bool                 `json:"location_placeholder"`
	CoverImageURL       *string              `json:"cover_image_url,omitempty"`
	Visibility          enums.TripVisibility `json:"visibility"`
	Status              enums.TripStatus     `json:"status"`
	StartDate           time.Time            `json:"start_date"`
	Days                types.Days           `json:"days"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func FromModel(m *models.Trip) *TripDTO {
	if m == nil {
		return nil
	}
	return &TripDTO{
		ID:                  m.ID,
		Title:               m.Title,
		TitlePlaceholder:    m.TitlePlaceholder,
		Location:            m.Location,
		LocationPlaceholder: m.LocationPlaceholder,
		CoverImageURL:       m.CoverImageURL,
		Visibility:          m.Visibility,
		Status:              m.Status,
		StartDate:           m.StartDate,
		Days:                m.Days,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// CreateTripRequest starts a new chronicle. All fields are optional; omitted
// title and location get placeholder values that later dictation suggestions
// may fill in.
type CreateTripRequest struct {
	Title      string     `json:"title" validate:"omitempty,max=160"`
	Location   string     `json:"location" validate:"omitempty,max=160"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	Visibility string     `json:"visibility" validate:"omitempty,oneof=private public"`
}

// UpdateTripRequest patches trip-level fields. Nil means leave unchanged.
type UpdateTripRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=160"`
	Location      *string `json:"location,omitempty" validate:"omitempty,max=160"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,max=2048"`
	Visibility    *string `json:"visibility,omitempty" validate:"omitempty,oneof=private public"`
}

// UpdateDayRequest patches day-level fields. Nil means leave unchanged.
type UpdateDayRequest struct {
	Summary       *string `json:"summary,omitempty"`
	Completed     *bool   `json:"completed,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,max=2048"`
}

// LogisticsRequest replaces a day's lodging and transport tracking.
type LogisticsRequest struct {
	HotelName     string          `json:"hotel_name" validate:"omitempty,max=160"`
	HotelCost     decimal.Decimal `json:"hotel_cost"`
	TransportMode string          `json:"transport_mode" validate:"omitempty,max=80"`
	TransportCost decimal.Decimal `json:"transport_cost"`
}

// MealRequest replaces one meal slot of a day's food tracking.
type MealRequest struct {
	Name       string          `json:"name" validate:"omitempty,max=160"`
	Cost       decimal.Decimal `json:"cost"`
	Restaurant string          `json:"restaurant" validate:"omitempty,max=160"`
}

// SectionImageRequest attaches an image to a narrated section.
type SectionImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,max=2048"`
}
