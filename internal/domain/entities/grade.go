package entities

import "fmt"

// Grade is the discretized quality of a learner's response.
type Grade int

const (
	GradeAgain Grade = iota + 1 // not recalled
	GradeHard                   // recalled with significant difficulty
	GradeGood                   // recalled
	GradeEasy                   // recalled effortlessly
)

var gradeNames = [...]string{GradeAgain: "again", GradeHard: "hard", GradeGood: "good", GradeEasy: "easy"}

// IsValid reports whether g is Again through Easy.
func (g Grade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// IsCorrect reports whether the grade counts as a successful recall.
func (g Grade) IsCorrect() bool {
	return g.IsValid() && g != GradeAgain
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// RatingMode selects how a response is turned into a grade.
type RatingMode string

const (
	RatingBinary    RatingMode = "binary"     // correct or incorrect
	RatingFourLevel RatingMode = "four_level" // legacy 0..5 quality
)

// Response is what the learner produced for one question.
type Response struct {
	Correct bool
	Quality *int // 0..5, only read in four-level mode
}

// CorrectResponse returns a binary response.
func CorrectResponse(correct bool) Response {
	return Response{Correct: correct}
}

// QualityResponse returns a four-level response with the given 0..5 quality.
func QualityResponse(quality int) Response {
	return Response{Correct: quality >= 3, Quality: &quality}
}

// MapToGrade converts a response into a grade.
// In four-level mode a missing quality falls back to the binary mapping.
func MapToGrade(mode RatingMode, r Response) Grade {
	if mode == RatingFourLevel && r.Quality != nil {
		q := min(max(*r.Quality, 0), 5)
		switch {
		case q <= 1:
			return GradeAgain
		case q == 2:
			return GradeHard
		case q <= 4:
			return GradeGood
		default:
			return GradeEasy
		}
	}

	if r.Correct {
		return GradeGood
	}
	return GradeAgain
}
