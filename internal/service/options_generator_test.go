package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

func TestGenerateOptionsSkipsDuplicateTexts(t *testing.T) {
	pool := []entities.WordItem{
		{ID: 1, Native: "cat", Target: "Katze"},
		{ID: 2, Native: "cat", Target: "Kater"},
		{ID: 3, Native: "dog", Target: "Hund"},
		{ID: 4, Native: "dog", Target: "Rüde"},
		{ID: 5, Native: "bird", Target: "Vogel"},
		{ID: 6, Native: "fish", Target: "Fisch"},
	}
	g := NewOptionGenerator(pool, rand.New(rand.NewSource(1)))

	for i := 0; i < 20; i++ {
		options, idx, err := g.GenerateOptions(pool[0], entities.LanguageNative)
		require.NoError(t, err)
		require.Len(t, options, OptionsCount)
		assert.Equal(t, "cat", options[idx])
		assert.ElementsMatch(t, []string{"cat", "dog", "bird", "fish"}, options)
	}
}

func TestGenerateOptionsPoolTooSmall(t *testing.T) {
	pool := []entities.WordItem{
		{ID: 1, Native: "cat", Target: "Katze"},
		{ID: 2, Native: "cat", Target: "Kater"},
		{ID: 3, Native: "dog", Target: "Hund"},
		{ID: 4, Native: "bird", Target: "Vogel"},
	}
	g := NewOptionGenerator(pool, rand.New(rand.NewSource(1)))

	_, _, err := g.GenerateOptions(pool[0], entities.LanguageNative)
	assert.ErrorIs(t, err, ErrPoolTooSmall)

	options, _, err := g.GenerateOptions(pool[0], entities.LanguageTarget)
	require.NoError(t, err)
	assert.Len(t, options, OptionsCount)

	assert.Equal(t, 3, distinctAnswers(pool, entities.LanguageNative))
	assert.Equal(t, 4, distinctAnswers(pool, entities.LanguageTarget))
}
