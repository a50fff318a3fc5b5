package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserSettingsApply(t *testing.T) {
	base := DefaultQuizConfig()

	var none *UserSettings
	assert.Equal(t, base, none.Apply(base))

	s := &UserSettings{
		QuestionTypes: TypesWriting,
		Mode:          ModeLearn,
		RatingMode:    RatingFourLevel,
		BatchSize:     5,
	}
	got := s.Apply(base)
	assert.False(t, got.MultipleChoice)
	assert.True(t, got.Writing)
	assert.Equal(t, ModeLearn, got.Mode)
	assert.Equal(t, RatingFourLevel, got.RatingMode)
	assert.Equal(t, 5, got.BatchSize)
	assert.Equal(t, base.SyncTimeout, got.SyncTimeout)

	unknown := &UserSettings{QuestionTypes: "audio", Mode: "exam"}
	assert.Equal(t, base, unknown.Apply(base))
}

func TestDueReminderCanSendNow(t *testing.T) {
	gap := 12 * time.Hour
	sent := t0.Add(-6 * time.Hour)
	longAgo := t0.Add(-gap)

	assert.True(t, (&DueReminder{DueCount: 3}).CanSendNow(t0, gap))
	assert.False(t, (&DueReminder{DueCount: 0}).CanSendNow(t0, gap))
	assert.False(t, (&DueReminder{DueCount: 3, LastSentAt: &sent}).CanSendNow(t0, gap))
	assert.True(t, (&DueReminder{DueCount: 3, LastSentAt: &longAgo}).CanSendNow(t0, gap))
}
