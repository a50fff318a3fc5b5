package storage

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/lexis-bot/internal/service"
)

func noop(*service.SessionState) error { return nil }

func TestQuizStorage(t *testing.T) {
	s := NewQuizStorage()

	assert.ErrorIs(t, s.Do(1, noop), ErrNoSession)

	st := &service.SessionState{UserID: 1}
	s.Store(1, st)

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Do(1, func(in *service.SessionState) error {
		assert.Same(t, st, in)
		return boom
	}), boom)

	_, ok := s.GetMessageID(1)
	assert.False(t, ok)
	s.SetMessageID(1, 42)
	id, ok := s.GetMessageID(1)
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	s.Store(1, &service.SessionState{UserID: 1})
	_, ok = s.GetMessageID(1)
	assert.False(t, ok, "a new session starts without a question message")

	s.Delete(1)
	assert.ErrorIs(t, s.Do(1, noop), ErrNoSession)
}

func TestQuizStorageTake(t *testing.T) {
	s := NewQuizStorage()
	assert.ErrorIs(t, s.Take(1, noop), ErrNoSession)

	s.Store(1, &service.SessionState{UserID: 1, TotalAnswered: 3})

	keep := errors.New("keep")
	assert.ErrorIs(t, s.Take(1, func(*service.SessionState) error { return keep }), keep)
	require.NoError(t, s.Do(1, noop), "a failed take keeps the session")

	var answered int
	require.NoError(t, s.Take(1, func(st *service.SessionState) error {
		answered = st.TotalAnswered
		return nil
	}))
	assert.Equal(t, 3, answered)
	assert.ErrorIs(t, s.Do(1, noop), ErrNoSession)
}

func TestQuizStorageTakeKeepsReplacedSession(t *testing.T) {
	s := NewQuizStorage()
	s.Store(1, &service.SessionState{UserID: 1})

	next := &service.SessionState{UserID: 1, TotalAnswered: 9}
	require.NoError(t, s.Take(1, func(*service.SessionState) error {
		s.Store(1, next)
		return nil
	}))

	require.NoError(t, s.Do(1, func(st *service.SessionState) error {
		assert.Same(t, next, st)
		return nil
	}))
}

func TestQuizStorageTakeWaitsForAnswers(t *testing.T) {
	s := NewQuizStorage()
	s.Store(1, &service.SessionState{UserID: 1})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(1, func(st *service.SessionState) error {
				st.TotalAnswered++
				return nil
			})
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Take(1, func(st *service.SessionState) error {
			_ = st.TotalAnswered
			return nil
		})
	}()

	wg.Wait()
	assert.ErrorIs(t, s.Do(1, noop), ErrNoSession)
}

func TestReminderStorage(t *testing.T) {
	s := NewReminderStorage()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	_, had := s.Swap(7, ReminderMessage{ChatID: 7, MessageID: 1, SentAt: now})
	assert.False(t, had)

	prev, had := s.Swap(7, ReminderMessage{ChatID: 7, MessageID: 2, SentAt: now.Add(time.Hour)})
	require.True(t, had)
	assert.Equal(t, 1, prev.MessageID)

	msg, ok := s.Take(7)
	require.True(t, ok)
	assert.Equal(t, 2, msg.MessageID)

	_, ok = s.Take(7)
	assert.False(t, ok)
}

func TestQuizStorageMessageIDWithinDo(t *testing.T) {
	s := NewQuizStorage()
	s.Store(3, &service.SessionState{UserID: 3})

	require.NoError(t, s.Do(3, func(*service.SessionState) error {
		s.SetMessageID(3, 11)
		s.Delete(3)
		return nil
	}))

	_, ok := s.GetMessageID(3)
	assert.False(t, ok)
}
