package entities

import "time"

// QuestionTypes selects which question kinds a user practices with.
type QuestionTypes string

const (
	TypesMixed          QuestionTypes = "mixed"
	TypesMultipleChoice QuestionTypes = "multiple_choice"
	TypesWriting        QuestionTypes = "writing"
)

// UserSettings stores a user's quiz preferences.
type UserSettings struct {
	UserID        int64
	QuestionTypes QuestionTypes
	Mode          QuizMode
	RatingMode    RatingMode
	BatchSize     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUserSettings creates a new UserSettings instance with default values.
func NewUserSettings(userID int64) *UserSettings {
	now := time.Now()
	return &UserSettings{
		UserID:        userID,
		QuestionTypes: TypesMixed,
		Mode:          ModeQuiz,
		RatingMode:    RatingBinary,
		BatchSize:     DefaultBatchSize,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Apply returns base with the user's preferences applied.
// Unknown or zero values leave the base untouched.
func (s *UserSettings) Apply(base QuizConfig) QuizConfig {
	if s == nil {
		return base
	}

	switch s.QuestionTypes {
	case TypesMixed:
		base.MultipleChoice, base.Writing = true, true
	case TypesMultipleChoice:
		base.MultipleChoice, base.Writing = true, false
	case TypesWriting:
		base.MultipleChoice, base.Writing = false, true
	}

	if s.Mode == ModeQuiz || s.Mode == ModeLearn {
		base.Mode = s.Mode
	}
	if s.RatingMode == RatingBinary || s.RatingMode == RatingFourLevel {
		base.RatingMode = s.RatingMode
	}
	if s.BatchSize > 0 {
		base.BatchSize = s.BatchSize
	}

	return base
}
