package requirements

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	"github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

// RequirementDTO is the transport shape of a client requirement.
type RequirementDTO struct {
	ID               uuid.UUID               `json:"id"`
	ClientID         uuid.UUID               `json:"client_id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	RoleWanted       string                  `json:"role_wanted"`
	Location         string                  `json:"location"`
	Compensation     decimal.Decimal         `json:"compensation"`
	CompensationType enums.CompensationType  `json:"compensation_type"`
	Category         enums.ArtCategory       `json:"category"`
	Status           enums.RequirementStatus `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// RequirementInput holds the client-provided fields for create and update.
type RequirementInput struct {
	Title            string
	Description      string
	RoleWanted       string
	Location         string
	Compensation     decimal.Decimal
	CompensationType enums.CompensationType
	Category         enums.ArtCategory
	Status           *enums.RequirementStatus
}

// ListParams configures the public requirement listing.
type ListParams struct {
	Status   *enums.RequirementStatus
	Category *enums.ArtCategory
	Page     int
	Limit    int
}

// ListResult wraps a page of requirements with the envelope summary.
type ListResult struct {
	Items      []RequirementDTO `json:"requirements"`
	Pagination pagination.Page  `json:"pagination"`
}

func toDTO(row *models.ClientRequirement) RequirementDTO {
	return RequirementDTO{
		ID:               row.ID,
		ClientID:         row.ClientID,
		Title:            row.Title,
		Description:      row.Description,
		RoleWanted:       row.RoleWanted,
		Location:         row.Location,
		Compensation:     row.Compensation,
		CompensationType: row.CompensationType,
		Category:         row.Category,
		Status:           row.Status,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
