package applications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kalaasetu/kalaasetu-backend/pkg/db/models"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

const createApplicationsTable = `
CREATE TABLE artist_applications (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    gender TEXT NOT NULL,
    street TEXT NOT NULL,
    city TEXT NOT NULL,
    state TEXT NOT NULL,
    pincode TEXT NOT NULL,
    category TEXT NOT NULL,
    experience INTEGER NOT NULL,
    introduction TEXT,
    certificate_url TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    rejection_reason TEXT,
    reviewed_by TEXT,
    reviewed_at DATETIME,
    created_at DATETIME,
    updated_at DATETIME
);
CREATE UNIQUE INDEX idx_artist_applications_user_id ON artist_applications (user_id);
`

func openRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(createApplicationsTable).Error)
	return conn
}

func testApplicationRow(userID uuid.UUID, status enums.ApplicationStatus, category enums.ArtCategory, createdAt time.Time) *models.ArtistApplication {
	return &models.ArtistApplication{
		ID:             uuid.New(),
		UserID:         userID,
		Gender:         enums.GenderFemale,
		Street:         "12 Ghat Road",
		City:           "Varanasi",
		State:          "Uttar Pradesh",
		Pincode:        "221001",
		Category:       category,
		Experience:     5,
		CertificateURL: "/uploads/cert.pdf",
		Status:         status,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func seedApplication(t *testing.T, repo *Repository, userID uuid.UUID, status enums.ApplicationStatus, category enums.ArtCategory, createdAt time.Time) *models.ArtistApplication {
	t.Helper()
	created, err := repo.Create(context.Background(), testApplicationRow(userID, status, category, createdAt))
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	userID := uuid.New()
	created := seedApplication(t, repo, userID, enums.ApplicationStatusPending, enums.ArtCategoryMusic, time.Now().UTC())

	byUser, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUser.ID)

	byID, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, byID.UserID)

	_, err = repo.FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUniqueUserIndex(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	userID := uuid.New()
	seedApplication(t, repo, userID, enums.ApplicationStatusPending, enums.ArtCategoryMusic, time.Now().UTC())

	_, err := repo.Create(context.Background(), testApplicationRow(userID, enums.ApplicationStatusPending, enums.ArtCategoryDance, time.Now().UTC()))
	assert.Error(t, err, "second application for the same user must fail")
}

func TestRepositoryCreateWithTxRollback(t *testing.T) {
	conn := openRepoTestDB(t)
	repo := NewRepository(conn)
	userID := uuid.New()

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	_, err := repo.CreateWithTx(tx, testApplicationRow(userID, enums.ApplicationStatusPending, enums.ArtCategoryMusic, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback().Error)

	_, err = repo.FindByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "rolled back insert must not persist")
}

func TestRepositoryUpdateClearsDecisionFields(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	userID := uuid.New()
	row := seedApplication(t, repo, userID, enums.ApplicationStatusPending, enums.ArtCategoryMusic, time.Now().UTC())

	reason := "certificate could not be verified"
	reviewer := uuid.New()
	reviewedAt := time.Now().UTC()
	row.Status = enums.ApplicationStatusRejected
	row.RejectionReason = &reason
	row.ReviewedBy = &reviewer
	row.ReviewedAt = &reviewedAt
	require.NoError(t, repo.Update(context.Background(), row))

	row.Status = enums.ApplicationStatusPending
	row.RejectionReason = nil
	row.ReviewedBy = nil
	row.ReviewedAt = nil
	require.NoError(t, repo.Update(context.Background(), row))

	fetched, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ApplicationStatusPending, fetched.Status)
	assert.Nil(t, fetched.RejectionReason)
	assert.Nil(t, fetched.ReviewedBy)
	assert.Nil(t, fetched.ReviewedAt)
}

func TestRepositoryListFiltersAndOrdering(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	older := seedApplication(t, repo, uuid.New(), enums.ApplicationStatusPending, enums.ArtCategoryMusic, base)
	newer := seedApplication(t, repo, uuid.New(), enums.ApplicationStatusPending, enums.ArtCategoryDance, base.Add(time.Hour))
	seedApplication(t, repo, uuid.New(), enums.ApplicationStatusApproved, enums.ArtCategoryMusic, base.Add(2*time.Hour))

	rows, total, err := repo.List(context.Background(), listQuery{limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 3)
	assert.Equal(t, older.ID, rows[len(rows)-1].ID, "oldest application last")

	status := enums.ApplicationStatusPending
	category := enums.ArtCategoryDance
	rows, total, err = repo.List(context.Background(), listQuery{status: &status, category: &category, limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)

	rows, total, err = repo.List(context.Background(), listQuery{limit: 2, offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 1, "one row on the last page")
}

func TestRepositoryCounts(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	now := time.Now().UTC()
	seedApplication(t, repo, uuid.New(), enums.ApplicationStatusPending, enums.ArtCategoryMusic, now)
	seedApplication(t, repo, uuid.New(), enums.ApplicationStatusPending, enums.ArtCategoryDance, now)
	seedApplication(t, repo, uuid.New(), enums.ApplicationStatusApproved, enums.ArtCategoryMusic, now)

	byStatus, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus[enums.ApplicationStatusPending])
	assert.Equal(t, int64(1), byStatus[enums.ApplicationStatusApproved])

	byCategory, err := repo.CountByCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), byCategory[enums.ArtCategoryMusic])
	assert.Equal(t, int64(1), byCategory[enums.ArtCategoryDance])
}
