package hires

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db"
	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	pkgpagination "github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

const uniqueHireConstraint = "idx_hire_records_client_artist"

type hiresRepository interface {
	Create(ctx context.Context, hire *models.HireRecord) (*models.HireRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.HireRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.HireRecord, int64, error)
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes hire recording for clients.
type Service interface {
	Create(ctx context.Context, clientID uuid.UUID, input CreateInput) (*HireDTO, error)
	List(ctx context.Context, clientID uuid.UUID, page, limit int) (*ListResult, error)
	UpdateStatus(ctx context.Context, clientID, hireID uuid.UUID, status enums.HireStatus) (*HireDTO, error)
}

type service struct {
	repo  hiresRepository
	users usersRepository
}

// NewService builds the hires service.
func NewService(repo hiresRepository, users usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("hires repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) Create(ctx context.Context, clientID uuid.UUID, input CreateInput) (*HireDTO, error) {
	if input.ArtistID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist_id is required")
	}
	if input.ArtistID == clientID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clients cannot hire themselves")
	}

	artist, err := s.users.FindByID(ctx, input.ArtistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
	}
	if artist.Role != enums.UserRoleArtist {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "the referenced user is not an artist")
	}

	row := &models.HireRecord{
		ClientID:      clientID,
		ArtistID:      input.ArtistID,
		RequirementID: input.RequirementID,
		Status:        enums.HireStatusPending,
		HiredAt:       time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueHireConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this artist has already been hired by this client")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create hire")
	}

	dto := toDTO(created)
	return &dto, nil
}

func (s *service) List(ctx context.Context, clientID uuid.UUID, page, limit int) (*ListResult, error) {
	normalized := pkgpagination.Normalize(pkgpagination.Params{Page: page, Limit: limit})
	rows, total, err := s.repo.ListByClient(ctx, clientID, normalized.Limit, normalized.Offset())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list hires")
	}

	items := make([]HireDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return &ListResult{
		Items:      items,
		Pagination: pkgpagination.PageFor(normalized, total),
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, clientID, hireID uuid.UUID, status enums.HireStatus) (*HireDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be one of pending, accepted, rejected, completed")
	}

	row, err := s.repo.FindByID(ctx, hireID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hire not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load hire")
	}
	if row.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hire not found")
	}

	if err := s.repo.UpdateStatus(ctx, hireID, status.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hire not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update hire status")
	}

	row.Status = status
	dto := toDTO(row)
	return &dto, nil
}
