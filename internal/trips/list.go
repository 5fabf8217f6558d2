package trips

import (
	"time"

	"github.com/google/uuid"

	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	pkgpagination "github.com/ananyakrishnan/safarnama-backend/pkg/pagination"
)

// ListParams scope the trip listing to the requesting traveler.
type ListParams struct {
	UserID uuid.UUID
	pkgpagination.Params
}

// ListResult is one page of trips plus the cursor for the next page.
type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

// ListItem is the trip summary row shown on the journal shelf; the day
// timeline is fetched per trip.
type ListItem struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Location      string               `json:"location"`
	CoverImageURL *string              `json:"cover_image_url,omitempty"`
	Visibility    enums.TripVisibility `json:"visibility"`
	Status        enums.TripStatus     `json:"status"`
	StartDate     time.Time            `json:"start_date"`
	DayCount      int                  `json:"day_count"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type listQuery struct {
	userID uuid.UUID
	limit  int
	cursor *pkgpagination.Cursor
}

func toListItem(m models.Trip) ListItem {
	return ListItem{
		ID:            m.ID,
		Title:         m.Title,
		Location:      m.Location,
		CoverImageURL: m.CoverImageURL,
		Visibility:    m.Visibility,
		Status:        m.Status,
		StartDate:     m.StartDate,
		DayCount:      len(m.Days),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
