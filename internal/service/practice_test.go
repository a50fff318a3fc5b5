package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

type stubSettings struct {
	settings *entities.UserSettings
	err      error
}

func (s stubSettings) GetOrCreate(context.Context, int64) (*entities.UserSettings, error) {
	return s.settings, s.err
}

func newTestPractice(t *testing.T, store *memStore, settings SettingsProvider) *PracticeService {
	t.Helper()
	sessions := NewSessionService(store, store)
	sessions.now = fixedClock(t0)

	p := NewPracticeService(sessions, store, settings, newTestEngine(t, newTestProgressService(t, store)),
		entities.DefaultQuizConfig(), 5, zap.NewNop())
	p.seed = func() int64 { return 42 }
	return p
}

func TestPracticeStartSessionAppliesSettings(t *testing.T) {
	store := newMemStore(makeWords(8, "unit-1")...)
	settings := &entities.UserSettings{
		QuestionTypes: entities.TypesWriting,
		Mode:          entities.ModeLearn,
		BatchSize:     3,
	}
	p := newTestPractice(t, store, stubSettings{settings: settings})

	st, err := p.StartSession(context.Background(), 1, "unit-1", "")
	require.NoError(t, err)

	assert.Equal(t, "unit-1", st.Scope)
	assert.Equal(t, entities.ModeLearn, st.Config.Mode)
	assert.False(t, st.Config.MultipleChoice)
	assert.Equal(t, int64(42), st.Config.Seed)
	assert.Len(t, st.Questions, 3)
	assert.Len(t, st.pending, 2, "session limit caps the words")
	for _, q := range st.Questions {
		assert.Equal(t, entities.QuestionWriting, q.Type)
	}
}

func TestPracticeModeOverride(t *testing.T) {
	store := newMemStore(makeWords(8, "")...)
	p := newTestPractice(t, store, stubSettings{settings: &entities.UserSettings{Mode: entities.ModeLearn}})

	st, err := p.StartSession(context.Background(), 1, "", entities.ModeQuiz)
	require.NoError(t, err)
	assert.Equal(t, entities.ModeQuiz, st.Config.Mode)
}

func TestPracticeSettingsFailureUsesDefaults(t *testing.T) {
	store := newMemStore(makeWords(8, "")...)
	p := newTestPractice(t, store, stubSettings{err: errors.New("timeout")})

	st, err := p.StartSession(context.Background(), 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, entities.ModeQuiz, st.Config.Mode)
	assert.True(t, st.Config.MultipleChoice)
}

func TestPracticeNothingToStudy(t *testing.T) {
	store := newMemStore(makeWords(4, "unit-1")...)
	p := newTestPractice(t, store, stubSettings{})

	_, err := p.StartSession(context.Background(), 1, "unit-2", "")
	assert.ErrorIs(t, err, ErrNoCandidates)
}
