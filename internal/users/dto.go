package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// UserDTO is the transport shape exposed for identity display.
type UserDTO struct {
	ID                      uuid.UUID      `json:"id"`
	Name                    string         `json:"name"`
	Email                   string         `json:"email"`
	Role                    enums.UserRole `json:"role"`
	Verified                bool           `json:"verified"`
	HasCompletedApplication bool           `json:"has_completed_application"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                      u.ID,
		Name:                    u.Name,
		Email:                   u.Email,
		Role:                    u.Role,
		Verified:                u.Verified,
		HasCompletedApplication: u.HasCompletedApplication,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}
