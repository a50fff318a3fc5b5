package httpapi

import (
	"context"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
)

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

type SessionStore interface {
	Store(userID int64, st *service.SessionState)
	Do(userID int64, fn func(st *service.SessionState) error) error
	Take(userID int64, fn func(st *service.SessionState) error) error
	Delete(userID int64)
}

type TokenParser interface {
	Parse(token string) (int64, error)
}
