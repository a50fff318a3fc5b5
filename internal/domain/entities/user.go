package entities

import "time"

// User is a learner known to the bot.
type User struct {
	ID        int64  // Telegram user ID
	ChatID    int64  // chat used for reminders
	Scope     string // scope of the last started session
	IsActive  bool
	CreatedAt time.Time
}

func NewUser(id, chatID int64) *User {
	return &User{
		ID:       id,
		ChatID:   chatID,
		IsActive: true,
	}
}
