package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// ArtistApplication is a user's request to join the marketplace as an artist.
// The unique index on user_id is authoritative for the one-application-per-user
// rule; racing submits surface as a unique violation, not a second row.
type ArtistApplication struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_artist_applications_user_id"`
	Gender          enums.Gender            `gorm:"column:gender;type:gender;not null"`
	Street          string                  `gorm:"column:street;not null"`
	City            string                  `gorm:"column:city;not null"`
	State           string                  `gorm:"column:state;not null"`
	Pincode         string                  `gorm:"column:pincode;type:char(6);not null"`
	Category        enums.ArtCategory       `gorm:"column:category;type:art_category;not null"`
	Experience      int                     `gorm:"column:experience;not null"`
	Introduction    *string                 `gorm:"column:introduction"`
	CertificateURL  string                  `gorm:"column:certificate_url;not null"`
	Status          enums.ApplicationStatus `gorm:"column:status;type:application_status;not null;default:'pending'"`
	RejectionReason *string                 `gorm:"column:rejection_reason"`
	ReviewedBy      *uuid.UUID              `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time              `gorm:"column:reviewed_at"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
