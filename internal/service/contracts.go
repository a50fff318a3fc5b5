package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	SetScope(ctx context.Context, userID int64, scope string) error
	SetActive(ctx context.Context, userID int64, active bool) error
}

// WordRepository is the read-only content source.
type WordRepository interface {
	ListByScope(ctx context.Context, scope string) ([]entities.WordItem, error)
	ListUnstudied(ctx context.Context, userID int64, scope string, now time.Time, limit int) ([]entities.WordItem, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]entities.WordItem, error)
	Scopes(ctx context.Context) ([]string, error)
}

type ProgressRepository interface {
	Get(ctx context.Context, userID, wordID int64) (*entities.ProgressRecord, error)
	Upsert(ctx context.Context, p *entities.ProgressRecord) error
	GetByWordIDs(ctx context.Context, userID int64, wordIDs []int64) (map[int64]*entities.ProgressRecord, error)
	ListDue(ctx context.Context, userID int64, scope string, before time.Time, limit int) ([]*entities.ProgressRecord, error)
	ListByStatus(ctx context.Context, userID int64, scope string, status entities.Status, limit int) ([]*entities.ProgressRecord, error)
	Stats(ctx context.Context, userID int64, scope string, now time.Time) (*entities.ProgressStats, error)
}

type SettingsRepository interface {
	Create(ctx context.Context, userID int64) error
	GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error)
	UpdateQuestionTypes(ctx context.Context, userID int64, types entities.QuestionTypes) error
	UpdateMode(ctx context.Context, userID int64, mode entities.QuizMode) error
	UpdateRatingMode(ctx context.Context, userID int64, mode entities.RatingMode) error
	UpdateBatchSize(ctx context.Context, userID int64, size int) error
}

// ReminderRepository manages reminder persistence.
type ReminderRepository interface {
	GetDueReminders(ctx context.Context, now time.Time) ([]*entities.DueReminder, error)
	MarkAsSent(ctx context.Context, userID int64, sentAt time.Time) error
	SetEnabled(ctx context.Context, userID int64, enabled bool) error
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(chatID int64, payload entities.ReminderPayload) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}
