package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// HireRecord ties a client to an artist they engaged. The composite unique
// index prevents the same pair from being recorded twice.
type HireRecord struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID      uuid.UUID        `gorm:"column:client_id;type:uuid;not null;uniqueIndex:idx_hire_records_client_artist"`
	ArtistID      uuid.UUID        `gorm:"column:artist_id;type:uuid;not null;uniqueIndex:idx_hire_records_client_artist"`
	RequirementID *uuid.UUID       `gorm:"column:requirement_id;type:uuid"`
	Status        enums.HireStatus `gorm:"column:status;type:hire_status;not null;default:'pending'"`
	HiredAt       time.Time        `gorm:"column:hired_at;not null"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
