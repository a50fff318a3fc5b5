package entities

import "time"

// ReminderPayload is used to build a reminder message.
type ReminderPayload struct {
	DueCount int
	Stats    ProgressStats
}

// DueReminder is a user with reviews waiting, as seen by the reminder job.
type DueReminder struct {
	UserID     int64
	ChatID     int64
	DueCount   int
	LastSentAt *time.Time
}

// CanSendNow reports whether at least minGap has passed since the last reminder.
func (r *DueReminder) CanSendNow(now time.Time, minGap time.Duration) bool {
	if r.DueCount == 0 {
		return false
	}
	if r.LastSentAt == nil {
		return true
	}
	return !now.Before(r.LastSentAt.Add(minGap))
}
