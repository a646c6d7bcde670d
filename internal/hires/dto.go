package hires

import (
	"time"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	"github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

// HireDTO is the transport shape of a hire record.
type HireDTO struct {
	ID            uuid.UUID        `json:"id"`
	ClientID      uuid.UUID        `json:"client_id"`
	ArtistID      uuid.UUID        `json:"artist_id"`
	RequirementID *uuid.UUID       `json:"requirement_id,omitempty"`
	Status        enums.HireStatus `json:"status"`
	HiredAt       time.Time        `json:"hired_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreateInput holds the fields required to record a hire.
type CreateInput struct {
	ArtistID      uuid.UUID
	RequirementID *uuid.UUID
}

// ListResult wraps a page of hires with the envelope summary.
type ListResult struct {
	Items      []HireDTO       `json:"hires"`
	Pagination pagination.Page `json:"pagination"`
}

func toDTO(row *models.HireRecord) HireDTO {
	return HireDTO{
		ID:            row.ID,
		ClientID:      row.ClientID,
		ArtistID:      row.ArtistID,
		RequirementID: row.RequirementID,
		Status:        row.Status,
		HiredAt:       row.HiredAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
