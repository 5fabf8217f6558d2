package trips

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	"github.com/ananyakrishnan/safarnama-backend/pkg/pagination"
	"github.com/ananyakrishnan/safarnama-backend/pkg/types"
)

func setupTripsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	trips := `
CREATE TABLE IF NOT EXISTS trips (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  title_placeholder INTEGER NOT NULL DEFAULT 1,
  location TEXT NOT NULL,
  location_placeholder INTEGER NOT NULL DEFAULT 1,
  cover_image_url TEXT,
  visibility TEXT NOT NULL DEFAULT 'private',
  status TEXT NOT NULL DEFAULT 'active',
  start_date DATETIME NOT NULL,
  days TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(trips).Error)
	return db
}

func seedTrip(t *testing.T, repo *Repository, userID uuid.UUID, createdAt time.Time) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		ID:                  uuid.New(),
		UserID:              userID,
		Title:               PlaceholderTitle,
		TitlePlaceholder:    true,
		Location:            PlaceholderLocation,
		LocationPlaceholder: true,
		Visibility:          enums.TripVisibilityPrivate,
		Status:              enums.TripStatusActive,
		StartDate:           createdAt,
		Days:                types.Days{types.NewDay(1, createdAt)},
		CreatedAt:           createdAt,
	}
	_, err := repo.Create(context.Background(), trip)
	require.NoError(t, err)
	return trip
}

func TestTripsRepoRoundTripsDayDocument(t *testing.T) {
	repo := NewRepository(setupTripsTestDB(t))
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	trip := seedTrip(t, repo, uuid.New(), now)

	trip.Days[0].Summary = "Long drive through the ghats."
	trip.Days[0].Sections = append(trip.Days[0].Sections, types.Section{
		ID:      uuid.New(),
		English: "The road climbed into the clouds.",
		Hindi:   "सड़क बादलों में चढ़ गई।",
		Topic:   "the drive",
	})
	trip.Days[0].Logistics = types.Logistics{
		HotelName:     "Hilltop Lodge",
		HotelCost:     decimal.NewFromInt(1800),
		TransportMode: "car",
		TransportCost: decimal.NewFromInt(700),
	}
	_, err := repo.Update(context.Background(), trip)
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), trip.ID)
	require.NoError(t, err)

	require.Len(t, got.Days, 1)
	day := got.Days[0]
	assert.Equal(t, "Long drive through the ghats.", day.Summary)
	require.Len(t, day.Sections, 1)
	assert.Equal(t, "the drive", day.Sections[0].Topic)
	assert.NotEmpty(t, day.Sections[0].Hindi)
	assert.True(t, day.Logistics.HotelCost.Equal(decimal.NewFromInt(1800)))
	assert.True(t, day.Logistics.TransportCost.Equal(decimal.NewFromInt(700)))
}

func TestTripsRepoUpdateAppendsDays(t *testing.T) {
	repo := NewRepository(setupTripsTestDB(t))
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	trip := seedTrip(t, repo, uuid.New(), now)

	trip.Days = append(trip.Days, types.NewDay(2, now.Add(24*time.Hour)))
	_, err := repo.Update(context.Background(), trip)
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), trip.ID)
	require.NoError(t, err)
	require.Len(t, got.Days, 2)
	assert.Equal(t, 2, got.Days[1].DayNumber)
}

func TestTripsRepoListCursorPagination(t *testing.T) {
	repo := NewRepository(setupTripsTestDB(t))
	userID := uuid.New()
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	var seeded []*models.Trip
	for i := 0; i < 3; i++ {
		seeded = append(seeded, seedTrip(t, repo, userID, base.Add(time.Duration(i)*time.Hour)))
	}
	seedTrip(t, repo, uuid.New(), base.Add(10*time.Hour)) // someone else's trip

	firstPage, err := repo.List(context.Background(), listQuery{userID: userID, limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	assert.Equal(t, seeded[2].ID, firstPage[0].ID)
	assert.Equal(t, seeded[1].ID, firstPage[1].ID)

	secondPage, err := repo.List(context.Background(), listQuery{
		userID: userID,
		limit:  2,
		cursor: &pagination.Cursor{
			CreatedAt: firstPage[1].CreatedAt,
			ID:        firstPage[1].ID,
		},
	})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, seeded[0].ID, secondPage[0].ID)
}
