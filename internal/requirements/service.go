package requirements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	pkgpagination "github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 1000
)

type requirementsRepository interface {
	Create(ctx context.Context, requirement *models.ClientRequirement) (*models.ClientRequirement, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ClientRequirement, error)
	Update(ctx context.Context, requirement *models.ClientRequirement) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts listQuery) ([]models.ClientRequirement, int64, error)
}

// Service exposes client requirement posting and discovery.
type Service interface {
	Create(ctx context.Context, clientID uuid.UUID, input RequirementInput) (*RequirementDTO, error)
	ListMine(ctx context.Context, clientID uuid.UUID, params ListParams) (*ListResult, error)
	ListPublic(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, clientID, requirementID uuid.UUID, input RequirementInput) (*RequirementDTO, error)
	Delete(ctx context.Context, clientID, requirementID uuid.UUID) error
}

type service struct {
	repo requirementsRepository
}

// NewService builds the requirements service.
func NewService(repo requirementsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requirements repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, clientID uuid.UUID, input RequirementInput) (*RequirementDTO, error) {
	if details := validateRequirementInput(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requirement fields failed validation").WithDetails(details)
	}

	status := enums.RequirementStatusActive
	if input.Status != nil {
		status = *input.Status
	}

	row := &models.ClientRequirement{
		ClientID:         clientID,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		RoleWanted:       strings.TrimSpace(input.RoleWanted),
		Location:         strings.TrimSpace(input.Location),
		Compensation:     input.Compensation,
		CompensationType: input.CompensationType,
		Category:         input.Category,
		Status:           status,
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create requirement")
	}

	dto := toDTO(created)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, clientID uuid.UUID, params ListParams) (*ListResult, error) {
	return s.list(ctx, &clientID, params)
}

// ListPublic only ever exposes active postings.
func (s *service) ListPublic(ctx context.Context, params ListParams) (*ListResult, error) {
	active := enums.RequirementStatusActive
	params.Status = &active
	return s.list(ctx, nil, params)
}

func (s *service) list(ctx context.Context, clientID *uuid.UUID, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if params.Category != nil && !params.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
	}

	page := pkgpagination.Normalize(pkgpagination.Params{Page: params.Page, Limit: params.Limit})
	rows, total, err := s.repo.List(ctx, listQuery{
		clientID: clientID,
		status:   params.Status,
		category: params.Category,
		limit:    page.Limit,
		offset:   page.Offset(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requirements")
	}

	items := make([]RequirementDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toDTO(&rows[i]))
	}
	return &ListResult{
		Items:      items,
		Pagination: pkgpagination.PageFor(page, total),
	}, nil
}

func (s *service) Update(ctx context.Context, clientID, requirementID uuid.UUID, input RequirementInput) (*RequirementDTO, error) {
	if details := validateRequirementInput(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requirement fields failed validation").WithDetails(details)
	}

	row, err := s.ownedRequirement(ctx, clientID, requirementID)
	if err != nil {
		return nil, err
	}

	row.Title = strings.TrimSpace(input.Title)
	row.Description = strings.TrimSpace(input.Description)
	row.RoleWanted = strings.TrimSpace(input.RoleWanted)
	row.Location = strings.TrimSpace(input.Location)
	row.Compensation = input.Compensation
	row.CompensationType = input.CompensationType
	row.Category = input.Category
	if input.Status != nil {
		row.Status = *input.Status
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update requirement")
	}

	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, clientID, requirementID uuid.UUID) error {
	if _, err := s.ownedRequirement(ctx, clientID, requirementID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, requirementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "requirement not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete requirement")
	}
	return nil
}

// ownedRequirement loads a requirement and hides other clients' rows behind
// not_found.
func (s *service) ownedRequirement(ctx context.Context, clientID, requirementID uuid.UUID) (*models.ClientRequirement, error) {
	row, err := s.repo.FindByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "requirement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load requirement")
	}
	if row.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "requirement not found")
	}
	return row, nil
}

func validateRequirementInput(input RequirementInput) map[string]string {
	details := make(map[string]string)
	title := strings.TrimSpace(input.Title)
	if title == "" {
		details["title"] = "title is required"
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		details["title"] = fmt.Sprintf("title must be at most %d characters", maxTitleLength)
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		details["description"] = "description is required"
	} else if utf8.RuneCountInString(description) > maxDescriptionLength {
		details["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLength)
	}
	if strings.TrimSpace(input.RoleWanted) == "" {
		details["role_wanted"] = "role_wanted is required"
	}
	if strings.TrimSpace(input.Location) == "" {
		details["location"] = "location is required"
	}
	if input.Compensation.LessThan(decimal.Zero) {
		details["compensation"] = "compensation must be zero or greater"
	}
	if !input.CompensationType.IsValid() {
		details["compensation_type"] = "compensation_type must be one of fixed, hourly, negotiable"
	}
	if !input.Category.IsValid() {
		details["category"] = "category is not a recognized art category"
	}
	if input.Status != nil && !input.Status.IsValid() {
		details["status"] = "status must be one of active, closed, paused"
	}
	return details
}
