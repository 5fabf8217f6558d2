package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Day is one day of a trip. Days live inside the trip row as a single JSON
// document; the slice order is the day order.
type Day struct {
	ID            uuid.UUID     `json:"id"`
	DayNumber     int           `json:"day_number"`
	RawTranscript string        `json:"raw_transcript"`
	Sections      []Section     `json:"sections"`
	Summary       string        `json:"summary"`
	Logistics     Logistics     `json:"logistics"`
	FoodLogistics FoodLogistics `json:"food_logistics"`
	Completed     bool          `json:"completed"`
	CoverImageURL string        `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Section is one narrated paragraph pair covering a single topic. Sections are
// appended by merges and never reordered or removed; the image is attached
// later by the user.
type Section struct {
	ID       uuid.UUID `json:"id"`
	English  string    `json:"english"`
	Hindi    string    `json:"hindi"`
	Topic    string    `json:"topic"`
	ImageURL string    `json:"image_url,omitempty"`
}

// Logistics tracks lodging and transport expenses for a day. Costs are never
// negative and default to zero, not null.
type Logistics struct {
	HotelName     string          `json:"hotel_name"`
	HotelCost     decimal.Decimal `json:"hotel_cost"`
	TransportMode string          `json:"transport_mode"`
	TransportCost decimal.Decimal `json:"transport_cost"`
}

// MealInfo tracks a single meal.
type MealInfo struct {
	Name       string          `json:"name"`
	Cost       decimal.Decimal `json:"cost"`
	Restaurant string          `json:"restaurant"`
}

// FoodLogistics tracks the three meals of a day.
type FoodLogistics struct {
	Breakfast MealInfo `json:"breakfast"`
	Lunch     MealInfo `json:"lunch"`
	Dinner    MealInfo `json:"dinner"`
}

// Days is the ordered day list persisted as the trip's document column.
type Days []Day

// NewDay returns a day initialized with zeroed logistics at the given position.
func NewDay(dayNumber int, now time.Time) Day {
	return Day{
		ID:        uuid.New(),
		DayNumber: dayNumber,
		Sections:  []Section{},
		CreatedAt: now,
	}
}
