package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                    string         `gorm:"type:text;not null"`
	Email                   string         `gorm:"type:text;not null;uniqueIndex"`
	Role                    enums.UserRole `gorm:"type:user_role;not null"`
	Verified                bool           `gorm:"column:verified;not null;default:false"`
	HasCompletedApplication bool           `gorm:"column:has_completed_application;not null;default:false"`
	CreatedAt               time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
