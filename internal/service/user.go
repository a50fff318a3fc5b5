package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres/repository"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser saves the user on first contact and keeps the chat id current.
// It reports whether the user is new.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) (bool, error) {
	user := entities.NewUser(userID, chatID)
	return s.repository.Save(ctx, user)
}

// LastScope returns the scope of the user's last session, empty if unknown.
func (s *UserService) LastScope(ctx context.Context, userID int64) (string, error) {
	user, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.Scope, nil
}

func (s *UserService) RememberScope(ctx context.Context, userID int64, scope string) error {
	return s.repository.SetScope(ctx, userID, scope)
}

// Deactivate marks a user unreachable, e.g. after they blocked the bot.
func (s *UserService) Deactivate(ctx context.Context, userID int64) error {
	return s.repository.SetActive(ctx, userID, false)
}
