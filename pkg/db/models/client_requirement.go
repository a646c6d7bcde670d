package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// ClientRequirement is a client's posted request for artist services.
type ClientRequirement struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID         uuid.UUID               `gorm:"column:client_id;type:uuid;not null"`
	Title            string                  `gorm:"column:title;not null"`
	Description      string                  `gorm:"column:description;not null"`
	RoleWanted       string                  `gorm:"column:role_wanted;not null"`
	Location         string                  `gorm:"column:location;not null"`
	Compensation     decimal.Decimal         `gorm:"column:compensation;type:numeric(12,2);not null"`
	CompensationType enums.CompensationType  `gorm:"column:compensation_type;type:compensation_type;not null"`
	Category         enums.ArtCategory       `gorm:"column:category;type:art_category;not null"`
	Status           enums.RequirementStatus `gorm:"column:status;type:requirement_status;not null;default:'active'"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
