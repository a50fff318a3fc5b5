package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/lexis-bot/internal/srs"
)

// retrievabilityEstimator is implemented by schedulers that can estimate recall probability.
type retrievabilityEstimator interface {
	Retrievability(p *entities.ProgressRecord, now time.Time) float64
}

// ProgressService records answers and reports progress.
type ProgressService struct {
	repository ProgressRepository
	primary    srs.Scheduler
	fallback   srs.Scheduler
	logger     *zap.Logger

	now func() time.Time
}

// NewProgressService creates a ProgressService that schedules with primary and
// falls back to fallback when primary or its write fails.
func NewProgressService(
	repository ProgressRepository,
	primary, fallback srs.Scheduler,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		repository: repository,
		primary:    primary,
		fallback:   fallback,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordAnswer grades the response, schedules the next review and persists the
// whole record with exactly one write. It returns an error wrapping
// ErrSyncFailure when neither scheduler path could persist.
func (s *ProgressService) RecordAnswer(
	ctx context.Context,
	userID, wordID int64,
	mode entities.RatingMode,
	resp entities.Response,
) (*srs.Outcome, error) {
	now := s.now().UTC()

	current, err := s.repository.Get(ctx, userID, wordID)
	if err != nil {
		if !errors.Is(err, repository.ErrProgressNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrSyncFailure, err)
		}
		current = nil
	}

	grade := entities.MapToGrade(mode, resp)

	rec, primaryErr := s.scheduleAndSave(ctx, s.primary, current, userID, wordID, grade, now)
	if primaryErr == nil {
		return &srs.Outcome{Record: rec}, nil
	}

	s.logger.Warn("primary scheduler failed, falling back to legacy",
		zap.Int64("user_id", userID),
		zap.Int64("word_id", wordID),
		zap.Stringer("grade", grade),
		zap.Error(primaryErr),
	)

	rec, fallbackErr := s.scheduleAndSave(ctx, s.fallback, current, userID, wordID, grade, now)
	if fallbackErr == nil {
		return &srs.Outcome{Record: rec, FallbackUsed: true, PrimaryErr: primaryErr}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrSyncFailure, errors.Join(primaryErr, fallbackErr))
}

func (s *ProgressService) scheduleAndSave(
	ctx context.Context,
	scheduler srs.Scheduler,
	current *entities.ProgressRecord,
	userID, wordID int64,
	grade entities.Grade,
	now time.Time,
) (entities.ProgressRecord, error) {
	rec, err := scheduler.Schedule(current, grade, now)
	if err != nil {
		return entities.ProgressRecord{}, err
	}

	stamp(&rec, current, userID, wordID, now)

	if err := s.repository.Upsert(ctx, &rec); err != nil {
		return entities.ProgressRecord{}, err
	}

	return rec, nil
}

// ApplyOptimistic computes locally what RecordAnswer is expected to store,
// using the same schedulers. local may be nil for a word never answered.
func (s *ProgressService) ApplyOptimistic(
	local *entities.ProgressRecord,
	userID, wordID int64,
	mode entities.RatingMode,
	resp entities.Response,
	now time.Time,
) (srs.Outcome, error) {
	out, err := srs.ScheduleWithFallback(s.primary, s.fallback, local, entities.MapToGrade(mode, resp), now.UTC())
	if err != nil {
		return out, err
	}

	stamp(&out.Record, local, userID, wordID, now.UTC())
	return out, nil
}

// ProgressSummary is what the /progress view shows.
type ProgressSummary struct {
	Scope          string
	Stats          entities.ProgressStats
	Percentage     float64 // mastered share of the scope
	Accuracy       float64
	Retrievability float64 // mean recall probability of reviewed words, zero when unknown
}

// GetProgressSummary builds the progress summary of a scope.
func (s *ProgressService) GetProgressSummary(ctx context.Context, userID int64, scope string) (*ProgressSummary, error) {
	now := s.now().UTC()

	stats, err := s.repository.Stats(ctx, userID, scope, now)
	if err != nil {
		return nil, err
	}

	summary := &ProgressSummary{
		Scope:    scope,
		Stats:    *stats,
		Accuracy: stats.Accuracy(),
	}
	if stats.Total > 0 {
		summary.Percentage = float64(stats.MasteredCount) / float64(stats.Total) * 100
	}

	est, ok := s.primary.(retrievabilityEstimator)
	if !ok {
		return summary, nil
	}

	var (
		sum   float64
		count int
	)
	for _, status := range []entities.Status{entities.StatusReview, entities.StatusMastered} {
		records, err := s.repository.ListByStatus(ctx, userID, scope, status, 0)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			sum += est.Retrievability(r, now)
			count++
		}
	}
	if count > 0 {
		summary.Retrievability = sum / float64(count)
	}

	return summary, nil
}

// stamp sets identity and timestamps on a record produced by a scheduler.
func stamp(rec *entities.ProgressRecord, current *entities.ProgressRecord, userID, wordID int64, now time.Time) {
	rec.UserID = userID
	rec.WordID = wordID
	if current == nil || current.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
}
