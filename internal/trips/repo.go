package trips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ananyakrishnan/safarnama-backend/pkg/db/models"
)

// Repository exposes trip persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a trips repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip row.
func (r *Repository) Create(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

// FindByID loads one trip with its full day document.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// List returns user-scoped trips using cursor pagination.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Trip, error) {
	query := r.db.WithContext(ctx).Model(&models.Trip{}).Where("user_id = ?", opts.userID)

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Trip
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the whole trip row. The day document is one column, so
// every write is read-modify-write on the full trip; last write wins.
func (r *Repository) Update(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if err := r.db.WithContext(ctx).Save(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}
