package applications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// Repository exposes artist application persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an applications repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listQuery struct {
	status   *enums.ApplicationStatus
	category *enums.ArtCategory
	limit    int
	offset   int
}

// Create inserts a new application row.
func (r *Repository) Create(ctx context.Context, application *models.ArtistApplication) (*models.ArtistApplication, error) {
	return r.CreateWithTx(r.db.WithContext(ctx), application)
}

// CreateWithTx inserts a new application row using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, application *models.ArtistApplication) (*models.ArtistApplication, error) {
	if err := tx.Create(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

// FindByUserID returns the single application owned by the given account.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ArtistApplication, error) {
	var row models.ArtistApplication
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID loads an application by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ArtistApplication, error) {
	var row models.ArtistApplication
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the full application row, including cleared decision fields.
func (r *Repository) Update(ctx context.Context, application *models.ArtistApplication) error {
	return r.UpdateWithTx(r.db.WithContext(ctx), application)
}

// UpdateWithTx persists the application row using the provided transaction.
func (r *Repository) UpdateWithTx(tx *gorm.DB, application *models.ArtistApplication) error {
	return tx.
		Model(application).
		Select("gender", "street", "city", "state", "pincode", "category", "experience",
			"introduction", "certificate_url", "status", "rejection_reason", "reviewed_by", "reviewed_at").
		Updates(application).Error
}

// List returns a page of applications ordered most-recent first plus the total count.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.ArtistApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ArtistApplication{})
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

	var rows []models.ArtistApplication
	if err := query.Order("created_at DESC").Order("id DESC").
		Limit(opts.limit).Offset(opts.offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountByStatus groups application totals per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.ApplicationStatus]int64, error) {
	type statusCount struct {
		Status enums.ApplicationStatus
		Count  int64
	}
	var counts []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.ArtistApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	result := make(map[enums.ApplicationStatus]int64, len(counts))
	for _, c := range counts {
		result[c.Status] = c.Count
	}
	return result, nil
}

// CountByCategory groups application totals per art category.
func (r *Repository) CountByCategory(ctx context.Context) (map[enums.ArtCategory]int64, error) {
	type categoryCount struct {
		Category enums.ArtCategory
		Count    int64
	}
	var counts []categoryCount
	if err := r.db.WithContext(ctx).
		Model(&models.ArtistApplication{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	result := make(map[enums.ArtCategory]int64, len(counts))
	for _, c := range counts {
		result[c.Category] = c.Count
	}
	return result, nil
}
