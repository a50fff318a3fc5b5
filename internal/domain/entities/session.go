package entities

// Tier is the priority class that made a word eligible for a session.
type Tier string

const (
	TierDue      Tier = "due"
	TierLearning Tier = "learning"
	TierNew      Tier = "new"
)

// SessionCandidate is a word selected for a practice session together with its progress.
// Progress is nil for a word that was never studied.
type SessionCandidate struct {
	Word     WordItem
	Progress *ProgressRecord
	Tier     Tier
	Scope    string
}

// ProgressStats summarizes a user's progress within a scope.
type ProgressStats struct {
	Total         int // words in scope
	NewCount      int // words never answered or still new
	LearningCount int
	ReviewCount   int
	MasteredCount int
	DueNow        int
	Reps          int
	Mistakes      int
}

// Accuracy returns the share of answers that were not mistakes, in percent.
func (s ProgressStats) Accuracy() float64 {
	if s.Reps == 0 || s.Mistakes >= s.Reps {
		return 0
	}
	return float64(s.Reps-s.Mistakes) / float64(s.Reps) * 100
}
