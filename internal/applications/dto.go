package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	"github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

// Identity carries the display fields resolved for applicants and reviewers.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AddressDTO is the nested address shape on the wire.
type AddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// ApplicationDTO is the transport shape of an artist application.
type ApplicationDTO struct {
	ID              uuid.UUID               `json:"id"`
	Applicant       *Identity               `json:"applicant,omitempty"`
	Gender          enums.Gender            `json:"gender"`
	Address         AddressDTO              `json:"address"`
	Category        enums.ArtCategory       `json:"category"`
	Experience      int                     `json:"experience"`
	Introduction    *string                 `json:"introduction,omitempty"`
	CertificateURL  string                  `json:"certificate_url"`
	Status          enums.ApplicationStatus `json:"status"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
	Reviewer        *Identity               `json:"reviewer,omitempty"`
	ReviewedAt      *time.Time              `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// SubmitInput holds the applicant-provided fields for create and resubmit.
type SubmitInput struct {
	Gender       enums.Gender
	Street       string
	City         string
	State        string
	Pincode      string
	Category     enums.ArtCategory
	Experience   int
	Introduction *string
}

// ListParams configures the moderator listing.
type ListParams struct {
	Status   *enums.ApplicationStatus
	Category *enums.ArtCategory
	Page     int
	Limit    int
}

// ListResult wraps a page of applications with the envelope summary.
type ListResult struct {
	Items      []ApplicationDTO `json:"applications"`
	Pagination pagination.Page  `json:"pagination"`
}

// StatsResult summarizes application counts for the moderator dashboard.
type StatsResult struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	Approved   int64            `json:"approved"`
	Rejected   int64            `json:"rejected"`
	ByCategory map[string]int64 `json:"by_category"`
}

func toDTO(row *models.ArtistApplication, applicant, reviewer *models.User) ApplicationDTO {
	dto := ApplicationDTO{
		ID: row.ID,
		Address: AddressDTO{
			Street:  row.Street,
			City:    row.City,
			State:   row.State,
			Pincode: row.Pincode,
		},
		Gender:          row.Gender,
		Category:        row.Category,
		Experience:      row.Experience,
		Introduction:    row.Introduction,
		CertificateURL:  row.CertificateURL,
		Status:          row.Status,
		RejectionReason: row.RejectionReason,
		ReviewedAt:      row.ReviewedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if applicant != nil {
		dto.Applicant = &Identity{ID: applicant.ID, Name: applicant.Name, Email: applicant.Email}
	}
	if reviewer != nil {
		dto.Reviewer = &Identity{ID: reviewer.ID, Name: reviewer.Name, Email: reviewer.Email}
	}
	return dto
}
