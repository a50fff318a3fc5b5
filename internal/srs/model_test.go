package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

var allGrades = []entities.Grade{entities.GradeAgain, entities.GradeHard, entities.GradeGood, entities.GradeEasy}

func mustModel(t *testing.T, cfg ModelConfig) *ModelScheduler {
	t.Helper()
	s, err := NewModelScheduler(cfg)
	require.NoError(t, err)
	return s
}

func TestNewModelSchedulerValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ModelConfig
		wantErr bool
	}{
		{name: "defaults", cfg: ModelConfig{}},
		{name: "custom", cfg: ModelConfig{RequestRetention: 0.85, MaximumInterval: 365, MasteryThreshold: 21}},
		{name: "retention above one", cfg: ModelConfig{RequestRetention: 1.5}, wantErr: true},
		{name: "negative retention", cfg: ModelConfig{RequestRetention: -0.1}, wantErr: true},
		{name: "interval below a day", cfg: ModelConfig{MaximumInterval: 0.5}, wantErr: true},
		{name: "negative threshold", cfg: ModelConfig{MasteryThreshold: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModelScheduler(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestModelFirstReview(t *testing.T) {
	s := mustModel(t, ModelConfig{})

	for _, g := range allGrades {
		t.Run(g.String(), func(t *testing.T) {
			got, err := s.Schedule(nil, g, t0)
			require.NoError(t, err)

			assert.Equal(t, entities.KindModel, got.Kind)
			assert.NotEqual(t, entities.StateNew, got.State)
			assert.NotEqual(t, entities.StatusNew, got.Status)
			assert.Equal(t, 1, got.Reps)
			assert.Greater(t, got.Stability, 0.0)
			assert.False(t, got.Due.Before(t0))
			require.NotNil(t, got.LastReview)
			assert.Equal(t, t0, *got.LastReview)
		})
	}
}

func TestModelDeterministic(t *testing.T) {
	s := mustModel(t, ModelConfig{})

	cur, err := s.Schedule(nil, entities.GradeGood, t0)
	require.NoError(t, err)

	at := t0.Add(72 * time.Hour)
	for _, g := range allGrades {
		a, err := s.Schedule(&cur, g, at)
		require.NoError(t, err)
		b, err := s.Schedule(&cur, g, at)
		require.NoError(t, err)
		assert.Equal(t, a, b, "grade %s", g)
	}
}

func TestModelDueNeverBeforeNow(t *testing.T) {
	s := mustModel(t, ModelConfig{})

	sequences := [][]entities.Grade{
		{entities.GradeGood, entities.GradeGood, entities.GradeGood, entities.GradeGood},
		{entities.GradeAgain, entities.GradeAgain, entities.GradeHard, entities.GradeGood},
		{entities.GradeEasy, entities.GradeAgain, entities.GradeGood, entities.GradeEasy},
		{entities.GradeHard, entities.GradeHard, entities.GradeHard, entities.GradeHard},
	}

	for _, seq := range sequences {
		var cur *entities.ProgressRecord
		now := t0
		for _, g := range seq {
			next, err := s.Schedule(cur, g, now)
			require.NoError(t, err)
			assert.False(t, next.Due.Before(now))
			require.NotNil(t, next.LastReview)
			assert.False(t, next.Due.Before(*next.LastReview))

			cur = &next
			// Review a little early on purpose: due must still not move into the past.
			now = now.Add(next.Due.Sub(now) / 2)
		}
	}
}

func TestModelStatusDerivation(t *testing.T) {
	s := mustModel(t, ModelConfig{})

	var cur *entities.ProgressRecord
	now := t0
	mastered := false
	for i := 0; i < 30 && !mastered; i++ {
		next, err := s.Schedule(cur, entities.GradeGood, now)
		require.NoError(t, err)

		if next.Status == entities.StatusMastered {
			mastered = true
			assert.Greater(t, next.Stability, s.MasteryThreshold())
		}
		if next.State == entities.StateReview && next.Stability > s.MasteryThreshold() {
			assert.Equal(t, entities.StatusMastered, next.Status)
		}
		if next.State == entities.StateReview && next.Stability <= s.MasteryThreshold() {
			assert.Equal(t, entities.StatusReview, next.Status)
		}

		cur = &next
		now = next.Due
	}

	assert.True(t, mastered, "repeated good answers on time should reach mastery")
}

func TestModelRelearningAfterLapse(t *testing.T) {
	s := mustModel(t, ModelConfig{})

	cur, err := s.Schedule(nil, entities.GradeEasy, t0)
	require.NoError(t, err)
	require.Equal(t, entities.StateReview, cur.State)

	lapsed, err := s.Schedule(&cur, entities.GradeAgain, cur.Due)
	require.NoError(t, err)

	assert.Equal(t, entities.StateRelearning, lapsed.State)
	assert.Equal(t, entities.StatusLearning, lapsed.Status)
	assert.Equal(t, 1, lapsed.Lapses)
	assert.Equal(t, 0, lapsed.Streak)
	assert.Equal(t, 1, lapsed.MistakeCount)
}

func TestModelRejectsInvalidState(t *testing.T) {
	s := mustModel(t, ModelConfig{})
	last := t0.Add(-time.Hour)
	future := t0.Add(time.Hour)

	tests := []struct {
		name   string
		mutate func(p *entities.ProgressRecord)
	}{
		{name: "negative stability", mutate: func(p *entities.ProgressRecord) { p.Stability = -1 }},
		{name: "negative difficulty", mutate: func(p *entities.ProgressRecord) { p.Difficulty = -2 }},
		{name: "negative elapsed days", mutate: func(p *entities.ProgressRecord) { p.ElapsedDays = -1 }},
		{name: "unknown state", mutate: func(p *entities.ProgressRecord) { p.State = entities.MemoryState(9) }},
		{name: "review in the future", mutate: func(p *entities.ProgressRecord) { p.LastReview = &future }},
		{name: "reviewed without stability", mutate: func(p *entities.ProgressRecord) { p.Stability = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := entities.NewProgressRecord(1, 1)
			p.State = entities.StateReview
			p.Stability = 4
			p.Difficulty = 5
			p.Reps = 3
			p.LastReview = &last
			tt.mutate(p)

			_, err := s.Schedule(p, entities.GradeGood, t0)
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}

	_, err := s.Schedule(nil, entities.Grade(7), t0)
	assert.ErrorIs(t, err, ErrInvalidGrade)
}

func TestModelUpgradesLegacyRecord(t *testing.T) {
	s := mustModel(t, ModelConfig{})
	cur := legacyRecord(entities.StatusReview, 8, 3)

	got, err := s.Schedule(cur, entities.GradeGood, t0)
	require.NoError(t, err)

	assert.Equal(t, entities.KindModel, got.Kind)
	assert.Equal(t, entities.StateReview, got.State)
	assert.Greater(t, got.Stability, 8.0)
	assert.Equal(t, 4, got.Streak)
}

func TestModelRetrievability(t *testing.T) {
	s := mustModel(t, ModelConfig{})

	assert.Zero(t, s.Retrievability(nil, t0))
	assert.Zero(t, s.Retrievability(entities.NewProgressRecord(1, 1), t0))

	cur, err := s.Schedule(nil, entities.GradeEasy, t0)
	require.NoError(t, err)

	soon := s.Retrievability(&cur, t0.Add(time.Hour))
	later := s.Retrievability(&cur, t0.Add(30*24*time.Hour))
	assert.Greater(t, soon, later)
	assert.LessOrEqual(t, soon, 1.0)
}
