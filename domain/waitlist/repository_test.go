package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/noctura/landing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))
	return db
}

func TestSubmissionRepository_RecordAssignsID(t *testing.T) {
	repo := NewSubmissionRepository(newTestDB(t))
	row := &models.WaitlistSubmission{Email: "user@example.com", Outcome: models.SubmissionOutcomeDelivered, Destination: "formspree.io", StatusCode: 200}

	require.NoError(t, repo.Record(context.Background(), row))
	assert.NotEmpty(t, row.ID)
}

func TestSubmissionRepository_CountByOutcome(t *testing.T) {
	repo := NewSubmissionRepository(newTestDB(t))
	ctx := context.Background()

	for _, outcome := range []string{
		models.SubmissionOutcomeDelivered,
		models.SubmissionOutcomeDelivered,
		models.SubmissionOutcomeRejected,
		models.SubmissionOutcomeFailed,
	} {
		require.NoError(t, repo.Record(ctx, &models.WaitlistSubmission{Email: "user@example.com", Outcome: outcome}))
	}

	counts, err := repo.CountByOutcome(ctx)

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		models.SubmissionOutcomeDelivered: 2,
		models.SubmissionOutcomeRejected:  1,
		models.SubmissionOutcomeFailed:    1,
	}, counts)
}

func TestSubmissionRepository_RecentNewestFirst(t *testing.T) {
	repo := NewSubmissionRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, email := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		require.NoError(t, repo.Record(ctx, &models.WaitlistSubmission{
			Email:     email,
			Outcome:   models.SubmissionOutcomeDelivered,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := repo.Recent(ctx, 2)

	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third@example.com", recent[0].Email)
	assert.Equal(t, "second@example.com", recent[1].Email)
}

func TestSubmissionRepository_NilDatabaseIsNoop(t *testing.T) {
	repo := NewSubmissionRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &models.WaitlistSubmission{Email: "user@example.com"}))
	counts, err := repo.CountByOutcome(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
	recent, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
