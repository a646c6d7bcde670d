package requirements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// Repository exposes client requirement persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a requirements repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listQuery struct {
	clientID *uuid.UUID
	status   *enums.RequirementStatus
	category *enums.ArtCategory
	limit    int
	offset   int
}

// Create inserts a new requirement row.
func (r *Repository) Create(ctx context.Context, requirement *models.ClientRequirement) (*models.ClientRequirement, error) {
	if err := r.db.WithContext(ctx).Create(requirement).Error; err != nil {
		return nil, err
	}
	return requirement, nil
}

// FindByID loads a requirement by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ClientRequirement, error) {
	var row models.ClientRequirement
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the mutable requirement fields.
func (r *Repository) Update(ctx context.Context, requirement *models.ClientRequirement) error {
	return r.db.WithContext(ctx).
		Model(requirement).
		Select("title", "description", "role_wanted", "location",
			"compensation", "compensation_type", "category", "status").
		Updates(requirement).Error
}

// Delete removes a requirement row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientRequirement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of requirements ordered most-recent first plus the total count.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.ClientRequirement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientRequirement{})
	if opts.clientID != nil {
		query = query.Where("client_id = ?", *opts.clientID)
	}
	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.category != nil {
		query = query.Where("category = ?", *opts.category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ClientRequirement
	if err := query.Order("created_at DESC").Order("id DESC").
		Limit(opts.limit).Offset(opts.offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
