package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads the users matching the provided UUIDs for identity display.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetCompletedApplication flips the account's has_completed_application flag.
func (r *Repository) SetCompletedApplication(ctx context.Context, id uuid.UUID) error {
	return r.SetCompletedApplicationWithTx(r.db.WithContext(ctx), id)
}

// SetCompletedApplicationWithTx flips the flag using the provided transaction.
func (r *Repository) SetCompletedApplicationWithTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("has_completed_application", true).Error
}
