package service

import (
	"math/rand"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// OptionsCount is the number of options of a multiple-choice question.
const OptionsCount = 4

// OptionGenerator builds multiple-choice options from a word pool.
type OptionGenerator struct {
	pool []entities.WordItem
	rng  *rand.Rand
}

// NewOptionGenerator creates an option generator over pool. rng drives both
// the distractor choice and the option order.
func NewOptionGenerator(pool []entities.WordItem, rng *rand.Rand) *OptionGenerator {
	return &OptionGenerator{
		pool: pool,
		rng:  rng,
	}
}

// GenerateOptions returns four options for word answered in the given language,
// and the index of the correct one. It returns ErrPoolTooSmall when the pool
// has fewer than three other words with distinct answer text.
func (g *OptionGenerator) GenerateOptions(word entities.WordItem, side entities.Language) ([]string, int, error) {
	correct := word.Text(side)

	wrong := g.generateWrongOptions(word, side, OptionsCount-1)
	if len(wrong) < OptionsCount-1 {
		return nil, 0, ErrPoolTooSmall
	}

	options := append([]string{correct}, wrong...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	for i, o := range options {
		if o == correct {
			return options, i, nil
		}
	}

	return options, 0, nil
}

// generateWrongOptions draws up to count distractors at random, without
// replacement, skipping the word itself and any text already used.
func (g *OptionGenerator) generateWrongOptions(word entities.WordItem, side entities.Language, count int) []string {
	used := map[string]bool{word.Text(side): true}
	wrong := make([]string, 0, count)

	for _, i := range g.rng.Perm(len(g.pool)) {
		if len(wrong) >= count {
			break
		}

		candidate := g.pool[i]
		if candidate.ID == word.ID {
			continue
		}

		text := candidate.Text(side)
		if text == "" || used[text] {
			continue
		}

		used[text] = true
		wrong = append(wrong, text)
	}

	return wrong
}

// distinctAnswers counts the distinct non-empty answer texts of pool in the given language.
func distinctAnswers(pool []entities.WordItem, side entities.Language) int {
	seen := make(map[string]struct{}, len(pool))
	for _, w := range pool {
		if t := w.Text(side); t != "" {
			seen[t] = struct{}{}
		}
	}
	return len(seen)
}
