package service

import (
	"strings"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// Verdict is the result of checking a written answer.
type Verdict struct {
	Correct bool
	Close   bool // wrong, but within the similarity threshold; feedback only
}

// AnswerValidator checks written answers.
// Native-language answers are compared case-insensitively, target-language
// answers must match exactly after trimming.
type AnswerValidator struct {
	threshold float64 // similarity threshold (0.0 - 1.0) for the Close hint
}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{
		threshold: 0.8,
	}
}

// Validate checks input against the expected answer written in the given language.
func (v *AnswerValidator) Validate(input, expected string, side entities.Language) Verdict {
	user := strings.TrimSpace(input)
	correct := strings.TrimSpace(expected)

	if side == entities.LanguageNative {
		if strings.EqualFold(user, correct) {
			return Verdict{Correct: true}
		}
	} else if user == correct {
		return Verdict{Correct: true}
	}

	if user == "" {
		return Verdict{}
	}

	return Verdict{Close: v.similarity(strings.ToLower(user), strings.ToLower(correct)) >= v.threshold}
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *AnswerValidator) similarity(s1, s2 string) float64 {
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	rows := len(r1) + 1
	cols := len(r2) + 1

	// Two rows instead of the full matrix.
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
