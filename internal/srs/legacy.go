package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

const (
	firstFailInterval = 0.5 // days, for a word failed on first sight
	resetInterval     = 1.0 // days, after any other failure
	firstPassInterval = 1.0 // days, after the first success
)

// LegacyScheduler is the interval-doubling rule. It reads and writes only the
// legacy fields (interval, streak, mistake count) and treats every grade but
// Again as correct. Memory-model fields are left as they were and the record is
// tagged KindLegacy, so the model scheduler knows to upgrade it first.
type LegacyScheduler struct {
	// MasteryInterval is the interval, in days, above which a word is mastered.
	// Zero means DefaultMasteryThreshold.
	MasteryInterval float64
}

// NewLegacyScheduler creates a LegacyScheduler with the default mastery interval.
func NewLegacyScheduler() *LegacyScheduler {
	return &LegacyScheduler{MasteryInterval: DefaultMasteryThreshold}
}

// Schedule implements Scheduler.
func (s *LegacyScheduler) Schedule(
	current *entities.ProgressRecord,
	grade entities.Grade,
	now time.Time,
) (entities.ProgressRecord, error) {
	if !grade.IsValid() {
		return entities.ProgressRecord{}, fmt.Errorf("%w: %d", ErrInvalidGrade, int(grade))
	}
	if err := validateLegacy(current); err != nil {
		return entities.ProgressRecord{}, err
	}

	var out entities.ProgressRecord
	if current != nil {
		out = *current.Clone()
	} else {
		out = *entities.NewProgressRecord(0, 0)
	}
	out.Kind = entities.KindLegacy

	if grade.IsCorrect() {
		out.Streak++

		if current == nil || current.Interval <= 0 {
			out.Interval = firstPassInterval
		} else {
			out.Interval = current.Interval * 2
		}

		switch {
		case out.Interval > s.masteryInterval():
			out.Status = entities.StatusMastered
		case current == nil || current.Status == entities.StatusNew:
			out.Status = entities.StatusLearning
		default:
			out.Status = entities.StatusReview
		}
	} else {
		out.Streak = 0
		out.MistakeCount++

		if neverSeen(current) {
			out.Interval = firstFailInterval
			out.Status = entities.StatusNew
		} else {
			out.Interval = resetInterval
			out.Status = entities.StatusLearning
		}
	}

	reviewed := now
	out.LastReview = &reviewed
	out.Due = now.Add(daysToDuration(out.Interval))

	return out, nil
}

func (s *LegacyScheduler) masteryInterval() float64 {
	if s.MasteryInterval <= 0 {
		return DefaultMasteryThreshold
	}
	return s.MasteryInterval
}

// neverSeen reports whether the record carries no trace of a previous answer.
func neverSeen(p *entities.ProgressRecord) bool {
	if p == nil {
		return true
	}
	return p.LastReview == nil && p.Reps == 0 && p.Streak == 0 && p.MistakeCount == 0
}

func validateLegacy(p *entities.ProgressRecord) error {
	if p == nil {
		return nil
	}
	switch {
	case math.IsNaN(p.Interval) || math.IsInf(p.Interval, 0) || p.Interval < 0:
		return fmt.Errorf("%w: interval %v", ErrInvalidState, p.Interval)
	case p.Streak < 0:
		return fmt.Errorf("%w: streak %d", ErrInvalidState, p.Streak)
	case p.MistakeCount < 0:
		return fmt.Errorf("%w: mistake count %d", ErrInvalidState, p.MistakeCount)
	}
	return nil
}
