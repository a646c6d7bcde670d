package hires

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
)

// Repository exposes hire record persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a hires repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new hire row. The composite unique index on
// (client_id, artist_id) rejects duplicate pairs.
func (r *Repository) Create(ctx context.Context, hire *models.HireRecord) (*models.HireRecord, error) {
	if err := r.db.WithContext(ctx).Create(hire).Error; err != nil {
		return nil, err
	}
	return hire, nil
}

// FindByID loads a hire by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.HireRecord, error) {
	var row models.HireRecord
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatus sets the status column on a hire row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.HireRecord{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByClient returns a page of the client's hires ordered most-recent first
// plus the total count.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.HireRecord, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.HireRecord{}).
		Where("client_id = ?", clientID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.HireRecord
	if err := query.Order("hired_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
