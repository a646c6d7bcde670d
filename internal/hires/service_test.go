package hires

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
)

type stubHiresRepo struct {
	byID map[uuid.UUID]*models.HireRecord

	createErr error
	statusSet map[uuid.UUID]string

	listRows  []models.HireRecord
	listTotal int64
}

func newStubHiresRepo() *stubHiresRepo {
	return &stubHiresRepo{
		byID:      map[uuid.UUID]*models.HireRecord{},
		statusSet: map[uuid.UUID]string{},
	}
}

func (s *stubHiresRepo) Create(_ context.Context, hire *models.HireRecord) (*models.HireRecord, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if hire.ID == uuid.Nil {
		hire.ID = uuid.New()
	}
	s.byID[hire.ID] = hire
	return hire, nil
}

func (s *stubHiresRepo) FindByID(_ context.Context, id uuid.UUID) (*models.HireRecord, error) {
	if row, ok := s.byID[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubHiresRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.statusSet[id] = status
	return nil
}

func (s *stubHiresRepo) ListByClient(_ context.Context, _ uuid.UUID, _, _ int) ([]models.HireRecord, int64, error) {
	return s.listRows, s.listTotal, nil
}

type stubUsersRepo struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUsersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func newTestService(t *testing.T, repo *stubHiresRepo, artists ...*models.User) Service {
	t.Helper()
	users := &stubUsersRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range artists {
		users.users[u.ID] = u
	}
	svc, err := NewService(repo, users)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func testArtist() *models.User {
	return &models.User{ID: uuid.New(), Name: "Ravi Kumar", Email: "ravi@example.com", Role: enums.UserRoleArtist}
}

func TestCreateHire(t *testing.T) {
	artist := testArtist()
	repo := newStubHiresRepo()
	svc := newTestService(t, repo, artist)
	clientID := uuid.New()

	dto, err := svc.Create(context.Background(), clientID, CreateInput{ArtistID: artist.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.HireStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if dto.ClientID != clientID || dto.ArtistID != artist.ID {
		t.Fatalf("unexpected pair: %+v", dto)
	}
	if dto.HiredAt.IsZero() {
		t.Fatal("expected hired_at set")
	}
}

func TestCreateRejectsNonArtist(t *testing.T) {
	client := &models.User{ID: uuid.New(), Role: enums.UserRoleClient}
	svc := newTestService(t, newStubHiresRepo(), client)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{ArtistID: client.ID})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRejectsUnknownArtist(t *testing.T) {
	svc := newTestService(t, newStubHiresRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{ArtistID: uuid.New()})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRejectsSelfHire(t *testing.T) {
	svc := newTestService(t, newStubHiresRepo())
	id := uuid.New()

	_, err := svc.Create(context.Background(), id, CreateInput{ArtistID: id})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateDuplicatePairConflict(t *testing.T) {
	artist := testArtist()
	repo := newStubHiresRepo()
	repo.createErr = fmt.Errorf(`duplicate key value violates unique constraint "idx_hire_records_client_artist"`)
	svc := newTestService(t, repo, artist)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{ArtistID: artist.ID})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateStatus(t *testing.T) {
	repo := newStubHiresRepo()
	clientID := uuid.New()
	row := &models.HireRecord{ID: uuid.New(), ClientID: clientID, ArtistID: uuid.New(), Status: enums.HireStatusPending, HiredAt: time.Now().UTC()}
	repo.byID[row.ID] = row
	svc := newTestService(t, repo)

	dto, err := svc.UpdateStatus(context.Background(), clientID, row.ID, enums.HireStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.HireStatusCompleted {
		t.Fatalf("expected completed, got %s", dto.Status)
	}
	if repo.statusSet[row.ID] != "completed" {
		t.Fatalf("expected status persisted, got %q", repo.statusSet[row.ID])
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t, newStubHiresRepo())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "cancelled")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusForeignHireIsNotFound(t *testing.T) {
	repo := newStubHiresRepo()
	row := &models.HireRecord{ID: uuid.New(), ClientID: uuid.New(), ArtistID: uuid.New(), Status: enums.HireStatusPending}
	repo.byID[row.ID] = row
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), row.ID, enums.HireStatusAccepted)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListPagination(t *testing.T) {
	repo := newStubHiresRepo()
	repo.listRows = []models.HireRecord{{ID: uuid.New(), ClientID: uuid.New(), ArtistID: uuid.New(), Status: enums.HireStatusPending}}
	repo.listTotal = 11
	svc := newTestService(t, repo)

	result, err := svc.List(context.Background(), uuid.New(), 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Current != 2 || result.Pagination.Pages != 2 || result.Pagination.Total != 11 {
		t.Fatalf("unexpected pagination summary: %+v", result.Pagination)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
}
