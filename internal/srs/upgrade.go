package srs

import "github.com/aliskhannn/lexis-bot/internal/domain/entities"

const (
	minUpgradedStability = 0.1
	baseDifficulty       = 5.0
)

// UpgradeLegacy rebuilds memory-model fields from the legacy fields of a record
// last written by the legacy scheduler. The result is tagged KindModel and keeps
// due, last review and legacy counters untouched.
//
// The legacy interval is taken as the stability: both describe the number of
// days until the word should be seen again. Difficulty that survived from an
// earlier model run is kept, otherwise it is estimated from mistakes and streak.
func UpgradeLegacy(p *entities.ProgressRecord) *entities.ProgressRecord {
	out := p.Clone()
	if p.Kind != entities.KindLegacy {
		return out
	}
	out.Kind = entities.KindModel

	if neverSeen(p) {
		out.State = entities.StateNew
		out.Stability = 0
		out.Difficulty = 0
		out.LearningSteps = 0
		return out
	}

	switch p.Status {
	case entities.StatusReview, entities.StatusMastered:
		out.State = entities.StateReview
		out.LearningSteps = 0
	case entities.StatusLearning:
		if p.Lapses > 0 {
			out.State = entities.StateRelearning
		} else {
			out.State = entities.StateLearning
		}
	default:
		// Failed on first sight: the model starts it in learning.
		out.State = entities.StateLearning
	}

	out.Stability = max(p.Interval, minUpgradedStability)
	out.ScheduledDays = int(p.Interval)

	if p.Difficulty < 1 || p.Difficulty > 10 {
		d := baseDifficulty + float64(p.MistakeCount) - 0.5*float64(p.Streak)
		out.Difficulty = min(max(d, 1), 10)
	}

	out.Reps = max(p.Reps, p.Streak+p.MistakeCount)

	return out
}
