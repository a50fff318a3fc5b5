package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

func TestAnswerValidator(t *testing.T) {
	v := NewAnswerValidator()

	tests := []struct {
		name     string
		input    string
		expected string
		side     entities.Language
		want     Verdict
	}{
		{name: "native exact", input: "house", expected: "house", side: entities.LanguageNative, want: Verdict{Correct: true}},
		{name: "native any case", input: " HoUse ", expected: "house", side: entities.LanguageNative, want: Verdict{Correct: true}},
		{name: "target exact", input: "Haus", expected: "Haus", side: entities.LanguageTarget, want: Verdict{Correct: true}},
		{name: "target trimmed", input: "\tHaus  ", expected: "Haus", side: entities.LanguageTarget, want: Verdict{Correct: true}},
		{name: "target case differs", input: "haus", expected: "Haus", side: entities.LanguageTarget, want: Verdict{Close: true}},
		{name: "typo is close", input: "Hauss", expected: "Haus", side: entities.LanguageTarget, want: Verdict{Close: true}},
		{name: "unrelated", input: "Katze", expected: "Haus", side: entities.LanguageTarget, want: Verdict{}},
		{name: "empty", input: "   ", expected: "Haus", side: entities.LanguageTarget, want: Verdict{}},
		{name: "unicode native", input: "ÉCOLE", expected: "école", side: entities.LanguageNative, want: Verdict{Correct: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.input, tt.expected, tt.side))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("", ""))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 1, levenshteinDistance("haus", "hause"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 2, levenshteinDistance("straße", "strasse"))
}
