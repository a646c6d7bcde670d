package applications

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db"
	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
	pkgpagination "github.com/kalaasetu/kalaasetu-backend/pkg/pagination"
)

const (
	uniqueApplicationConstraint = "idx_artist_applications_user_id"

	maxIntroductionLength = 500
	minRejectionReason    = 10
	maxRejectionReason    = 500
	maxExperienceYears    = 50
)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type applicationsRepository interface {
	CreateWithTx(tx *gorm.DB, application *models.ArtistApplication) (*models.ArtistApplication, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ArtistApplication, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ArtistApplication, error)
	Update(ctx context.Context, application *models.ArtistApplication) error
	UpdateWithTx(tx *gorm.DB, application *models.ArtistApplication) error
	List(ctx context.Context, opts listQuery) ([]models.ArtistApplication, int64, error)
	CountByStatus(ctx context.Context) (map[enums.ApplicationStatus]int64, error)
	CountByCategory(ctx context.Context) (map[enums.ArtCategory]int64, error)
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	SetCompletedApplicationWithTx(tx *gorm.DB, id uuid.UUID) error
}

type decisionMailer interface {
	SendDecision(to, name string, approved bool, reason string) error
}

// Service exposes the artist application workflow: submission, status lookup,
// resubmission, and moderation.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput, certificateURL string) (*ApplicationDTO, error)
	Status(ctx context.Context, userID uuid.UUID) (*ApplicationDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input SubmitInput, certificateURL *string) (*ApplicationDTO, error)
	Approve(ctx context.Context, moderatorID, applicationID uuid.UUID) (*ApplicationDTO, error)
	Reject(ctx context.Context, moderatorID, applicationID uuid.UUID, reason string) (*ApplicationDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, applicationID uuid.UUID) (*ApplicationDTO, error)
	Stats(ctx context.Context) (*StatsResult, error)
}

type service struct {
	tx    txRunner
	repo  applicationsRepository
	users usersRepository
	mail  decisionMailer
	log   *logger.Logger
}

// NewService builds the application service. The mailer and logger are
// optional; decision mail and logging are skipped when absent.
func NewService(tx txRunner, repo applicationsRepository, users usersRepository, mail decisionMailer, log *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{tx: tx, repo: repo, users: users, mail: mail, log: log}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput, certificateURL string) (*ApplicationDTO, error) {
	details := validateSubmitInput(input)
	if strings.TrimSpace(certificateURL) == "" {
		details["certificate"] = "certificate is required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application fields failed validation").WithDetails(details)
	}

	applicant, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicant")
	}

	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an application already exists for this account")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing application")
	}

	row := &models.ArtistApplication{
		UserID:         userID,
		Gender:         input.Gender,
		Street:         strings.TrimSpace(input.Street),
		City:           strings.TrimSpace(input.City),
		State:          strings.TrimSpace(input.State),
		Pincode:        strings.TrimSpace(input.Pincode),
		Category:       input.Category,
		Experience:     input.Experience,
		Introduction:   trimOptional(input.Introduction),
		CertificateURL: certificateURL,
		Status:         enums.ApplicationStatusPending,
	}

	// The row and the account flag commit together; a failed flag update must
	// not leave an orphaned application behind.
	var created *models.ArtistApplication
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		created, txErr = s.repo.CreateWithTx(tx, row)
		if txErr != nil {
			// Racing submits land here rather than as a second row.
			if db.IsUniqueViolation(txErr, uniqueApplicationConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "an application already exists for this account")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create application")
		}
		if txErr := s.users.SetCompletedApplicationWithTx(tx, userID); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "flag account application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(created, applicant, nil)
	return &dto, nil
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (*ApplicationDTO, error) {
	row, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no application found for this account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load application")
	}

	dto := toDTO(row, s.lookupUser(ctx, &row.UserID), s.lookupUser(ctx, row.ReviewedBy))
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input SubmitInput, certificateURL *string) (*ApplicationDTO, error) {
	if details := validateSubmitInput(input); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application fields failed validation").WithDetails(details)
	}

	row, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no application found for this account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load application")
	}
	if row.Status == enums.ApplicationStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "approved applications cannot be modified")
	}

	row.Gender = input.Gender
	row.Street = strings.TrimSpace(input.Street)
	row.City = strings.TrimSpace(input.City)
	row.State = strings.TrimSpace(input.State)
	row.Pincode = strings.TrimSpace(input.Pincode)
	row.Category = input.Category
	row.Experience = input.Experience
	row.Introduction = trimOptional(input.Introduction)
	if certificateURL != nil && strings.TrimSpace(*certificateURL) != "" {
		row.CertificateURL = *certificateURL
	}
	if row.Status == enums.ApplicationStatusRejected {
		row.Status = enums.ApplicationStatusPending
		row.RejectionReason = nil
		row.ReviewedBy = nil
		row.ReviewedAt = nil
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update application")
	}

	dto := toDTO(row, s.lookupUser(ctx, &row.UserID), nil)
	return &dto, nil
}

func (s *service) Approve(ctx context.Context, moderatorID, applicationID uuid.UUID) (*ApplicationDTO, error) {
	row, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load application")
	}
	if row.Status != enums.ApplicationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("application is already %s", row.Status))
	}

	now := time.Now().UTC()
	row.Status = enums.ApplicationStatusApproved
	row.RejectionReason = nil
	row.ReviewedBy = &moderatorID
	row.ReviewedAt = &now

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if txErr := s.repo.UpdateWithTx(tx, row); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "approve application")
		}
		if txErr := s.users.SetCompletedApplicationWithTx(tx, row.UserID); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "flag account application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	applicant := s.lookupUser(ctx, &row.UserID)
	reviewer := s.lookupUser(ctx, &moderatorID)
	s.notifyDecision(ctx, applicant, true, "")

	dto := toDTO(row, applicant, reviewer)
	return &dto, nil
}

func (s *service) Reject(ctx context.Context, moderatorID, applicationID uuid.UUID, reason string) (*ApplicationDTO, error) {
	reason = strings.TrimSpace(reason)
	if length := utf8.RuneCountInString(reason); length < minRejectionReason || length > maxRejectionReason {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason failed validation").
			WithDetails(map[string]string{
				"reason": fmt.Sprintf("reason must be between %d and %d characters", minRejectionReason, maxRejectionReason),
			})
	}

	row, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load application")
	}
	if row.Status != enums.ApplicationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("application is already %s", row.Status))
	}

	now := time.Now().UTC()
	row.Status = enums.ApplicationStatusRejected
	row.RejectionReason = &reason
	row.ReviewedBy = &moderatorID
	row.ReviewedAt = &now

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reject application")
	}

	applicant := s.lookupUser(ctx, &row.UserID)
	reviewer := s.lookupUser(ctx, &moderatorID)
	s.notifyDecision(ctx, applicant, false, reason)

	dto := toDTO(row, applicant, reviewer)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if params.Category != nil && !params.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter")
	}

	page := pkgpagination.Normalize(pkgpagination.Params{Page: params.Page, Limit: params.Limit})
	rows, total, err := s.repo.List(ctx, listQuery{
		status:   params.Status,
		category: params.Category,
		limit:    page.Limit,
		offset:   page.Offset(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list applications")
	}

	identities, err := s.identitiesFor(ctx, rows)
	if err != nil {
		return nil, err
	}

	items := make([]ApplicationDTO, 0, len(rows))
	for i := range rows {
		var reviewer *models.User
		if rows[i].ReviewedBy != nil {
			reviewer = identities[*rows[i].ReviewedBy]
		}
		items = append(items, toDTO(&rows[i], identities[rows[i].UserID], reviewer))
	}

	return &ListResult{
		Items:      items,
		Pagination: pkgpagination.PageFor(page, total),
	}, nil
}

func (s *service) Get(ctx context.Context, applicationID uuid.UUID) (*ApplicationDTO, error) {
	row, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load application")
	}

	dto := toDTO(row, s.lookupUser(ctx, &row.UserID), s.lookupUser(ctx, row.ReviewedBy))
	return &dto, nil
}

func (s *service) Stats(ctx context.Context) (*StatsResult, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count applications by status")
	}
	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count applications by category")
	}

	result := &StatsResult{
		Pending:    byStatus[enums.ApplicationStatusPending],
		Approved:   byStatus[enums.ApplicationStatusApproved],
		Rejected:   byStatus[enums.ApplicationStatusRejected],
		ByCategory: make(map[string]int64, len(byCategory)),
	}
	result.Total = result.Pending + result.Approved + result.Rejected
	for category, count := range byCategory {
		result.ByCategory[category.String()] = count
	}
	return result, nil
}

// lookupUser resolves an identity for display. Lookup failures degrade the
// response, not the operation.
func (s *service) lookupUser(ctx context.Context, id *uuid.UUID) *models.User {
	if id == nil {
		return nil
	}
	user, err := s.users.FindByID(ctx, *id)
	if err != nil {
		if s.log != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn(ctx, "identity lookup failed: "+err.Error())
		}
		return nil
	}
	return user
}

// identitiesFor batch loads the applicant and reviewer accounts referenced by
// a page of applications.
func (s *service) identitiesFor(ctx context.Context, rows []models.ArtistApplication) (map[uuid.UUID]*models.User, error) {
	ids := make([]uuid.UUID, 0, 2*len(rows))
	seen := make(map[uuid.UUID]struct{}, 2*len(rows))
	collect := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range rows {
		collect(rows[i].UserID)
		if rows[i].ReviewedBy != nil {
			collect(*rows[i].ReviewedBy)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicants")
	}
	byID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}

// notifyDecision sends the moderation outcome mail. Delivery is best effort.
func (s *service) notifyDecision(ctx context.Context, applicant *models.User, approved bool, reason string) {
	if s.mail == nil || applicant == nil {
		return
	}
	if err := s.mail.SendDecision(applicant.Email, applicant.Name, approved, reason); err != nil && s.log != nil {
		s.log.Error(ctx, "decision mail failed", err)
	}
}

func validateSubmitInput(input SubmitInput) map[string]string {
	details := make(map[string]string)
	if !input.Gender.IsValid() {
		details["gender"] = "gender must be one of male, female, other"
	}
	if strings.TrimSpace(input.Street) == "" {
		details["street"] = "street is required"
	}
	if strings.TrimSpace(input.City) == "" {
		details["city"] = "city is required"
	}
	if strings.TrimSpace(input.State) == "" {
		details["state"] = "state is required"
	}
	if !pincodePattern.MatchString(strings.TrimSpace(input.Pincode)) {
		details["pincode"] = "pincode must be exactly 6 digits"
	}
	if !input.Category.IsValid() {
		details["category"] = "category is not a recognized art category"
	}
	if input.Experience < 0 || input.Experience > maxExperienceYears {
		details["experience"] = fmt.Sprintf("experience must be between 0 and %d years", maxExperienceYears)
	}
	if input.Introduction != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Introduction)) > maxIntroductionLength {
		details["introduction"] = fmt.Sprintf("introduction must be at most %d characters", maxIntroductionLength)
	}
	return details
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
