package storage

import (
	"sync"
	"time"
)

// ReminderMessage is the last reminder shown in a chat.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// ReminderStorage tracks the latest reminder message per user so that
// a new reminder can replace the previous one instead of piling up.
type ReminderStorage struct {
	mu       sync.Mutex
	messages map[int64]ReminderMessage
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		messages: make(map[int64]ReminderMessage),
	}
}

// Swap records msg as the latest reminder of userID and returns the previous one.
func (s *ReminderStorage) Swap(userID int64, msg ReminderMessage) (prev ReminderMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[userID]
	s.messages[userID] = msg
	return prev, hadPrev
}

// Take removes and returns the latest reminder of userID,
// e.g. when the user starts practicing from it.
func (s *ReminderStorage) Take(userID int64) (ReminderMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[userID]
	delete(s.messages, userID)
	return msg, ok
}
