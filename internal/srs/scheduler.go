package srs

import (
	"fmt"
	"time"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// DefaultMasteryThreshold is the stability, in days, above which a word counts as mastered.
const DefaultMasteryThreshold = 30.0

// Scheduler computes the record that replaces current after a review graded grade at now.
// A nil current stands for a word that was never answered. Identity fields are
// copied from current; callers stamp them when current is nil.
type Scheduler interface {
	Schedule(current *entities.ProgressRecord, grade entities.Grade, now time.Time) (entities.ProgressRecord, error)
}

// Outcome is the result of ScheduleWithFallback.
type Outcome struct {
	Record       entities.ProgressRecord
	FallbackUsed bool  // the legacy scheduler produced Record
	PrimaryErr   error // why the primary scheduler was skipped, nil otherwise
}

// ScheduleWithFallback runs primary and, if it fails, fallback.
// It returns an error only when both fail.
func ScheduleWithFallback(
	primary, fallback Scheduler,
	current *entities.ProgressRecord,
	grade entities.Grade,
	now time.Time,
) (Outcome, error) {
	rec, err := primary.Schedule(current, grade, now)
	if err == nil {
		return Outcome{Record: rec}, nil
	}

	legacy, ferr := fallback.Schedule(current, grade, now)
	if ferr != nil {
		return Outcome{PrimaryErr: err}, fmt.Errorf("primary: %w; fallback: %w", err, ferr)
	}

	return Outcome{Record: legacy, FallbackUsed: true, PrimaryErr: err}, nil
}

// daysToDuration converts fractional days into a duration.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days * 24 * float64(time.Hour))
}
