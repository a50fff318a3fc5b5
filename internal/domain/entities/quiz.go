package entities

import "time"

// QuizMode selects how wrong answers are handled.
type QuizMode string

const (
	ModeQuiz  QuizMode = "quiz"  // advance immediately after a wrong answer
	ModeLearn QuizMode = "learn" // wait for the learner to acknowledge a wrong answer
)

// DefaultBatchSize is the number of questions in one round.
const DefaultBatchSize = 10

// QuizConfig holds the learner-facing options of a practice session.
type QuizConfig struct {
	MultipleChoice   bool       // multiple-choice questions enabled
	Writing          bool       // writing questions enabled
	MCDirection      Direction  // direction of multiple-choice questions
	WritingDirection Direction  // direction of writing questions
	RatingMode       RatingMode // how responses become grades
	BatchSize        int        // questions per round
	Mode             QuizMode
	AudioOnQuestion  bool          // UI only
	Seed             int64         // seed for shuffling and distractor selection
	SyncTimeout      time.Duration // bound on a single progress write
}

// DefaultQuizConfig returns a mixed multiple-choice and writing configuration.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		MultipleChoice:   true,
		Writing:          true,
		MCDirection:      DirectionTargetToNative,
		WritingDirection: DirectionNativeToTarget,
		RatingMode:       RatingBinary,
		BatchSize:        DefaultBatchSize,
		Mode:             ModeQuiz,
		SyncTimeout:      5 * time.Second,
	}
}

// QuizScore is the final result of a practice session.
type QuizScore struct {
	CorrectCount  int `json:"correct_count"`
	TotalAnswered int `json:"total_answered"` // includes replayed questions
	Rounds        int `json:"rounds"`
}
