package telegram

import (
	"context"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) (bool, error)
	LastScope(ctx context.Context, userID int64) (string, error)
	RememberScope(ctx context.Context, userID int64, scope string) error
	Deactivate(ctx context.Context, userID int64) error
}

type PracticeService interface {
	StartSession(ctx context.Context, userID int64, scope string, mode entities.QuizMode) (*service.SessionState, error)
}

type QuizEngine interface {
	Current(st *service.SessionState) (*entities.QuizQuestion, error)
	Answer(ctx context.Context, st *service.SessionState, in entities.AnswerInput) (*service.AnswerResult, error)
	Acknowledge(st *service.SessionState) error
	Next(st *service.SessionState) (*entities.QuizQuestion, error)
	Score(st *service.SessionState) entities.QuizScore
}

type ProgressService interface {
	GetProgressSummary(ctx context.Context, userID int64, scope string) (*service.ProgressSummary, error)
}

type SettingsService interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error)
	UpdateQuestionTypes(ctx context.Context, userID int64, types entities.QuestionTypes) error
	UpdateMode(ctx context.Context, userID int64, mode entities.QuizMode) error
	UpdateRatingMode(ctx context.Context, userID int64, mode entities.RatingMode) error
	UpdateBatchSize(ctx context.Context, userID int64, size int) error
}

type ReminderService interface {
	SetEnabled(ctx context.Context, userID int64, enabled bool) error
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64, scope string) (int64, error)
}

// TokenIssuer signs practice API tokens.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type ScopeLister interface {
	Scopes(ctx context.Context) ([]string, error)
}

type QuizStorage interface {
	Store(userID int64, st *service.SessionState)
	Do(userID int64, fn func(st *service.SessionState) error) error
	SetMessageID(userID int64, messageID int)
	GetMessageID(userID int64) (int, bool)
	Take(userID int64, fn func(st *service.SessionState) error) error
	Delete(userID int64)
}

type ReminderStorage interface {
	Swap(userID int64, msg storage.ReminderMessage) (storage.ReminderMessage, bool)
	Take(userID int64) (storage.ReminderMessage, bool)
}
