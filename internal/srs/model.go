package srs

import (
	"fmt"
	"math"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// ModelConfig configures a ModelScheduler.
// Zero values produce defaults; see field comments.
type ModelConfig struct {
	RequestRetention float64 // zero → 0.9
	MaximumInterval  float64 // days, zero → 36500
	MasteryThreshold float64 // stability days, zero → DefaultMasteryThreshold
}

// ModelScheduler schedules reviews with the FSRS memory model.
// Fuzzing is disabled, so equal inputs always give equal outputs.
type ModelScheduler struct {
	fsrs             *fsrs.FSRS
	masteryThreshold float64
}

// NewModelScheduler creates a ModelScheduler from cfg.
func NewModelScheduler(cfg ModelConfig) (*ModelScheduler, error) {
	params := fsrs.DefaultParam()
	params.EnableFuzz = false

	if cfg.RequestRetention != 0 {
		if cfg.RequestRetention <= 0 || cfg.RequestRetention > 1 {
			return nil, fmt.Errorf("%w: request retention %f out of range (0, 1]", ErrInvalidConfig, cfg.RequestRetention)
		}
		params.RequestRetention = cfg.RequestRetention
	}

	if cfg.MaximumInterval != 0 {
		if cfg.MaximumInterval < 1 {
			return nil, fmt.Errorf("%w: maximum interval %f must be at least one day", ErrInvalidConfig, cfg.MaximumInterval)
		}
		params.MaximumInterval = cfg.MaximumInterval
	}

	threshold := cfg.MasteryThreshold
	if threshold == 0 {
		threshold = DefaultMasteryThreshold
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: mastery threshold %f must be positive", ErrInvalidConfig, threshold)
	}

	return &ModelScheduler{
		fsrs:             fsrs.NewFSRS(params),
		masteryThreshold: threshold,
	}, nil
}

// MasteryThreshold returns the stability above which a reviewed word is mastered.
func (s *ModelScheduler) MasteryThreshold() float64 {
	return s.masteryThreshold
}

// Schedule implements Scheduler.
// Records last written by the legacy scheduler are upgraded with UpgradeLegacy first.
func (s *ModelScheduler) Schedule(
	current *entities.ProgressRecord,
	grade entities.Grade,
	now time.Time,
) (entities.ProgressRecord, error) {
	if !grade.IsValid() {
		return entities.ProgressRecord{}, fmt.Errorf("%w: %d", ErrInvalidGrade, int(grade))
	}

	prev := current
	if prev == nil {
		prev = entities.NewProgressRecord(0, 0)
	}
	if err := validateModel(prev, now); err != nil {
		return entities.ProgressRecord{}, err
	}
	if prev.Kind == entities.KindLegacy {
		prev = UpgradeLegacy(prev)
	}

	next := s.fsrs.Repeat(toCard(prev, now), now)[toRating(grade)].Card

	out := *prev.Clone()
	out.Kind = entities.KindModel
	out.State = entities.MemoryState(next.State)
	out.Stability = next.Stability
	out.Difficulty = next.Difficulty
	out.ElapsedDays = int(next.ElapsedDays)
	out.ScheduledDays = int(next.ScheduledDays)
	out.Reps = int(next.Reps)
	out.Lapses = int(next.Lapses)

	out.Due = next.Due
	if out.Due.Before(now) {
		out.Due = now
	}
	reviewed := now
	out.LastReview = &reviewed

	switch out.State {
	case entities.StateLearning, entities.StateRelearning:
		if grade == entities.GradeAgain || out.State != prev.State {
			out.LearningSteps = 0
		} else {
			out.LearningSteps = prev.LearningSteps + 1
		}
	default:
		out.LearningSteps = 0
	}

	// Legacy fields mirror the model so the fallback path can continue from here.
	out.Interval = out.Due.Sub(now).Hours() / 24
	out.EaseFactor = easeFromDifficulty(out.Difficulty)
	if grade.IsCorrect() {
		out.Streak++
	} else {
		out.Streak = 0
		out.MistakeCount++
	}

	out.Status = entities.StatusFor(out.State, out.Stability, s.masteryThreshold)

	return out, nil
}

// Retrievability returns the estimated probability of recalling the word at now.
// It is zero for a word that was never reviewed.
func (s *ModelScheduler) Retrievability(p *entities.ProgressRecord, now time.Time) float64 {
	if p == nil || p.LastReview == nil || p.State == entities.StateNew || p.Stability <= 0 {
		return 0
	}
	if p.Kind == entities.KindLegacy {
		p = UpgradeLegacy(p)
	}
	return s.fsrs.GetRetrievability(toCard(p, now), now)
}

func toCard(p *entities.ProgressRecord, now time.Time) fsrs.Card {
	card := fsrs.Card{
		Due:           p.Due,
		Stability:     p.Stability,
		Difficulty:    p.Difficulty,
		ElapsedDays:   uint64(p.ElapsedDays),
		ScheduledDays: uint64(p.ScheduledDays),
		Reps:          uint64(p.Reps),
		Lapses:        uint64(p.Lapses),
		State:         fsrs.State(p.State),
	}
	if card.Due.IsZero() {
		card.Due = now
	}
	if p.LastReview != nil {
		card.LastReview = *p.LastReview
	}
	return card
}

func toRating(g entities.Grade) fsrs.Rating {
	switch g {
	case entities.GradeAgain:
		return fsrs.Again
	case entities.GradeHard:
		return fsrs.Hard
	case entities.GradeEasy:
		return fsrs.Easy
	default:
		return fsrs.Good
	}
}

func validateModel(p *entities.ProgressRecord, now time.Time) error {
	switch {
	case !p.State.IsValid():
		return fmt.Errorf("%w: state %d", ErrInvalidState, int(p.State))
	case badFloat(p.Stability):
		return fmt.Errorf("%w: stability %v", ErrInvalidState, p.Stability)
	case badFloat(p.Difficulty):
		return fmt.Errorf("%w: difficulty %v", ErrInvalidState, p.Difficulty)
	case badFloat(p.Interval):
		return fmt.Errorf("%w: interval %v", ErrInvalidState, p.Interval)
	case p.ElapsedDays < 0 || p.ScheduledDays < 0:
		return fmt.Errorf("%w: negative day counters", ErrInvalidState)
	case p.Reps < 0 || p.Lapses < 0 || p.LearningSteps < 0:
		return fmt.Errorf("%w: negative review counters", ErrInvalidState)
	case p.LastReview != nil && p.LastReview.After(now):
		return fmt.Errorf("%w: last review %s is after %s", ErrInvalidState, p.LastReview, now)
	case p.Kind == entities.KindModel && p.State != entities.StateNew && p.Stability <= 0:
		return fmt.Errorf("%w: reviewed word without stability", ErrInvalidState)
	}
	return nil
}

func badFloat(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}

// easeFromDifficulty maps difficulty 1..10 onto the legacy ease range 2.5..1.3.
func easeFromDifficulty(d float64) float64 {
	d = min(max(d, 1), 10)
	return 2.5 - (d-1)/9*1.2
}
