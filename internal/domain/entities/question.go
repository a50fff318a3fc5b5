package entities

// QuestionType is the kind of quiz question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionWriting        QuestionType = "writing"
)

// Direction says which side of a word is shown and which side is expected.
type Direction string

const (
	DirectionTargetToNative Direction = "target_to_native"
	DirectionNativeToTarget Direction = "native_to_target"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionTargetToNative || d == DirectionNativeToTarget
}

// Prompt returns the language side shown to the learner.
func (d Direction) Prompt() Language {
	if d == DirectionNativeToTarget {
		return LanguageNative
	}
	return LanguageTarget
}

// Answer returns the language side the learner must produce.
func (d Direction) Answer() Language {
	if d == DirectionNativeToTarget {
		return LanguageTarget
	}
	return LanguageNative
}

// QuizQuestion is a generated question. It is never persisted.
type QuizQuestion struct {
	Word          WordItem
	Type          QuestionType
	Direction     Direction
	Prompt        string
	CorrectAnswer string
	Options       []string // multiple choice only
	CorrectIndex  int      // multiple choice only
}

// AnswerInput is the learner's raw answer to a question.
type AnswerInput struct {
	SelectedIndex int    // multiple choice
	Text          string // writing
	Quality       *int   // optional self-grade used in four-level rating mode
}
