package trips

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
	"github.com/ananyakrishnan/safarnama-backend/pkg/enums"
	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
	pkgpagination "github.com/ananyakrishnan/safarnama-backend/pkg/pagination"
	"github.com/ananyakrishnan/safarnama-backend/pkg/types"
)

const (
	// PlaceholderTitle and PlaceholderLocation are the system defaults a new
	// chronicle starts with. While a trip still carries one, a dictation
	// suggestion may replace it; the first real value, user-set or suggested,
	// clears the matching flag for good.
	PlaceholderTitle    = "New Journey"
	PlaceholderLocation = "Unknown"
)

// Service handles the trip and day lifecycle.
type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, req CreateTripRequest) (*TripDTO, error)
	ListTrips(ctx context.Context, params ListParams) (*ListResult, error)
	GetTrip(ctx context.Context, viewerID, tripID uuid.UUID) (*TripDTO, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req UpdateTripRequest) (*TripDTO, error)
	CompleteTrip(ctx context.Context, userID, tripID uuid.UUID) (*TripDTO, error)
	ReactivateTrip(ctx context.Context, userID, tripID uuid.UUID) (*TripDTO, error)
	AddDay(ctx context.Context, userID, tripID uuid.UUID) (*TripDTO, error)
	UpdateDay(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, req UpdateDayRequest) (*TripDTO, error)
	SetLogistics(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, req LogisticsRequest) (*TripDTO, error)
	SetMeal(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, slot enums.MealSlot, req MealRequest) (*TripDTO, error)
	AttachSectionImage(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, sectionID uuid.UUID, req SectionImageRequest) (*TripDTO, error)
}

type tripRepository interface {
	Create(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	List(ctx context.Context, opts listQuery) ([]models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) (*models.Trip, error)
}

// ServiceParams wires the trip service dependencies.
type ServiceParams struct {
	Repo tripRepository
	Now  func() time.Time
}

type service struct {
	repo tripRepository
	now  func() time.Time
}

// NewService validates dependencies and returns a trip service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("trips repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

// CreateTrip starts a chronicle with its first day. Title and location fall
// back to placeholders unless the traveler provides real values up front.
func (s *service) CreateTrip(ctx context.Context, userID uuid.UUID, req CreateTripRequest) (*TripDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	now := s.now().UTC()
	trip := &models.Trip{
		ID:                  uuid.New(),
		UserID:              userID,
		Title:               PlaceholderTitle,
		TitlePlaceholder:    true,
		Location:            PlaceholderLocation,
		LocationPlaceholder: true,
		Visibility:          enums.TripVisibilityPrivate,
		Status:              enums.TripStatusActive,
		StartDate:           now,
		Days:                types.Days{types.NewDay(1, now)},
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		trip.Title = title
		trip.TitlePlaceholder = false
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		trip.Location = location
		trip.LocationPlaceholder = false
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate.UTC()
	}
	if req.Visibility != "" {
		visibility, err := enums.ParseTripVisibility(req.Visibility)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid visibility")
		}
		trip.Visibility = visibility
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trip")
	}
	return FromModel(created), nil
}

// ListTrips pages through the traveler's own chronicles, newest first.
func (s *service) ListTrips(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		userID: params.UserID,
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trips")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	items := make([]ListItem, len(rows))
	for i, row := range rows {
		items[i] = toListItem(row)
	}

	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

// GetTrip returns a trip to its owner, or to anyone when it is public. A
// private trip looks absent to everyone but its owner.
func (s *service) GetTrip(ctx context.Context, viewerID, tripID uuid.UUID) (*TripDTO, error) {
	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != viewerID && trip.Visibility != enums.TripVisibilityPublic {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return FromModel(trip), nil
}

// UpdateTrip patches title, location, cover, or visibility. A traveler
// setting a real title or location retires the matching placeholder flag so
// later dictation suggestions leave it alone.
func (s *service) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, req UpdateTripRequest) (*TripDTO, error) {
	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		trip.Title = title
		trip.TitlePlaceholder = false
	}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location cannot be empty")
		}
		trip.Location = location
		trip.LocationPlaceholder = false
	}
	if req.CoverImageURL != nil {
		if url := strings.TrimSpace(*req.CoverImageURL); url == "" {
			trip.CoverImageURL = nil
		} else {
			trip.CoverImageURL = &url
		}
	}
	if req.Visibility != nil {
		visibility, err := enums.ParseTripVisibility(*req.Visibility)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid visibility")
		}
		trip.Visibility = visibility
	}

	return s.save(ctx, trip)
}

// CompleteTrip closes the chronicle. Completing an already completed trip is
// a no-op.
func (s *service) CompleteTrip(ctx context.Context, userID, tripID uuid.UUID) (*TripDTO, error) {
	return s.setStatus(ctx, userID, tripID, enums.TripStatusCompleted)
}

// ReactivateTrip reopens a completed chronicle so days can be added again.
func (s *service) ReactivateTrip(ctx context.Context, userID, tripID uuid.UUID) (*TripDTO, error) {
	return s.setStatus(ctx, userID, tripID, enums.TripStatusActive)
}

func (s *service) setStatus(ctx context.Context, userID, tripID uuid.UUID, status enums.TripStatus) (*TripDTO, error) {
	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status == status {
		return FromModel(trip), nil
	}
	trip.Status = status
	return s.save(ctx, trip)
}

// AddDay appends the next day to an active trip. Day numbers only ever grow;
// days are never removed.
func (s *service) AddDay(ctx context.Context, userID, tripID uuid.UUID) (*TripDTO, error) {
	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status == enums.TripStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "trip is completed")
	}

	trip.Days = append(trip.Days, types.NewDay(len(trip.Days)+1, s.now().UTC()))
	return s.save(ctx, trip)
}

// UpdateDay patches the day summary, completion flag, or cover image.
func (s *service) UpdateDay(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, req UpdateDayRequest) (*TripDTO, error) {
	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	day, err := dayAt(trip, dayNumber)
	if err != nil {
		return nil, err
	}

	if req.Summary != nil {
		day.Summary = *req.Summary
	}
	if req.Completed != nil {
		day.Completed = *req.Completed
	}
	if req.CoverImageURL != nil {
		day.CoverImageURL = strings.TrimSpace(*req.CoverImageURL)
	}

	return s.save(ctx, trip)
}

// SetLogistics replaces the day's lodging and transport tracking.
func (s *service) SetLogistics(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, req LogisticsRequest) (*TripDTO, error) {
	if req.HotelCost.IsNegative() || req.TransportCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "costs cannot be negative")
	}

	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	day, err := dayAt(trip, dayNumber)
	if err != nil {
		return nil, err
	}

	day.Logistics = types.Logistics{
		HotelName:     strings.TrimSpace(req.HotelName),
		HotelCost:     req.HotelCost,
		TransportMode: strings.TrimSpace(req.TransportMode),
		TransportCost: req.TransportCost,
	}

	return s.save(ctx, trip)
}

// SetMeal replaces one meal slot of the day's food tracking.
func (s *service) SetMeal(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, slot enums.MealSlot, req MealRequest) (*TripDTO, error) {
	if !slot.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid meal slot")
	}
	if req.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}

	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	day, err := dayAt(trip, dayNumber)
	if err != nil {
		return nil, err
	}

	meal := types.MealInfo{
		Name:       strings.TrimSpace(req.Name),
		Cost:       req.Cost,
		Restaurant: strings.TrimSpace(req.Restaurant),
	}
	switch slot {
	case enums.MealSlotBreakfast:
		day.FoodLogistics.Breakfast = meal
	case enums.MealSlotLunch:
		day.FoodLogistics.Lunch = meal
	case enums.MealSlotDinner:
		day.FoodLogistics.Dinner = meal
	}

	return s.save(ctx, trip)
}

// AttachSectionImage sets the image on a narrated section after the fact.
func (s *service) AttachSectionImage(ctx context.Context, userID, tripID uuid.UUID, dayNumber int, sectionID uuid.UUID, req SectionImageRequest) (*TripDTO, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	trip, err := s.findOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	day, err := dayAt(trip, dayNumber)
	if err != nil {
		return nil, err
	}

	for i := range day.Sections {
		if day.Sections[i].ID == sectionID {
			day.Sections[i].ImageURL = imageURL
			return s.save(ctx, trip)
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "section not found")
}

func (s *service) findTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	if tripID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip id is required")
	}
	trip, err := s.repo.FindByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find trip")
	}
	return trip, nil
}

// findOwnedTrip hides other users' trips behind the same not-found as a
// missing row; existence of a private trip is not leaked to non-owners.
func (s *service) findOwnedTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.findTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return trip, nil
}

func dayAt(trip *models.Trip, dayNumber int) (*types.Day, error) {
	for i := range trip.Days {
		if trip.Days[i].DayNumber == dayNumber {
			return &trip.Days[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "day not found")
}

func (s *service) save(ctx context.Context, trip *models.Trip) (*TripDTO, error) {
	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trip")
	}
	return FromModel(updated), nil
}
