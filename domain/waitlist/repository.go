package waitlist

import (
	"context"

	"github.com/noctura/landing/internal/models"
	apperrors "github.com/noctura/landing/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

type SubmissionRepository interface {
	// Record stores one audit row for a relay attempt.
	Record(ctx context.Context, submission *models.WaitlistSubmission) error
	// CountByOutcome returns the number of recorded attempts per outcome.
	CountByOutcome(ctx context.Context) (map[string]int64, error)
	// Recent returns the newest attempts first.
	Recent(ctx context.Context, limit int) ([]*models.WaitlistSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository returns a repository that discards writes when db is nil.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	if db == nil {
		return noopSubmissionRepository{}
	}
	return &submissionRepository{db: db}
}

func (sr *submissionRepository) Record(ctx context.Context, submission *models.WaitlistSubmission) error {
	if err := sr.db.WithContext(ctx).Create(submission).Error; err != nil {
		return apperrors.NewDatabaseError("unable to record waitlist submission", err)
	}
	return nil
}

func (sr *submissionRepository) CountByOutcome(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		Total   int64
	}

	err := sr.db.WithContext(ctx).
		Model(&models.WaitlistSubmission{}).
		Select("outcome, count(*) as total").
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to count waitlist submissions", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Outcome] = row.Total
	}
	return counts, nil
}

func (sr *submissionRepository) Recent(ctx context.Context, limit int) ([]*models.WaitlistSubmission, error) {
	if limit <= 0 {
		limit = 20
	}

	var submissions []*models.WaitlistSubmission
	err := sr.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist submissions", err)
	}
	return submissions, nil
}

type noopSubmissionRepository struct{}

func (noopSubmissionRepository) Record(context.Context, *models.WaitlistSubmission) error {
	return nil
}

func (noopSubmissionRepository) CountByOutcome(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (noopSubmissionRepository) Recent(context.Context, int) ([]*models.WaitlistSubmission, error) {
	return nil, nil
}
