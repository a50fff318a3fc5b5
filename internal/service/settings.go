package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres/repository"
)

// MaxBatchSize bounds the questions per round a user can choose.
const MaxBatchSize = 50

var ErrInvalidSetting = errors.New("invalid setting")

type SettingsService struct {
	repository SettingsRepository
}

func NewSettingsService(repository SettingsRepository) *SettingsService {
	return &SettingsService{repository: repository}
}

func (s *SettingsService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	settings, err := s.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			if err := s.repository.Create(ctx, userID); err != nil {
				return nil, err
			}
			return s.repository.GetByUserID(ctx, userID)
		}
		return nil, err
	}

	return settings, nil
}

func (s *SettingsService) UpdateQuestionTypes(ctx context.Context, userID int64, types entities.QuestionTypes) error {
	switch types {
	case entities.TypesMixed, entities.TypesMultipleChoice, entities.TypesWriting:
		return s.repository.UpdateQuestionTypes(ctx, userID, types)
	default:
		return fmt.Errorf("%w: question types %q", ErrInvalidSetting, types)
	}
}

func (s *SettingsService) UpdateMode(ctx context.Context, userID int64, mode entities.QuizMode) error {
	if mode != entities.ModeQuiz && mode != entities.ModeLearn {
		return fmt.Errorf("%w: mode %q", ErrInvalidSetting, mode)
	}
	return s.repository.UpdateMode(ctx, userID, mode)
}

func (s *SettingsService) UpdateRatingMode(ctx context.Context, userID int64, mode entities.RatingMode) error {
	if mode != entities.RatingBinary && mode != entities.RatingFourLevel {
		return fmt.Errorf("%w: rating mode %q", ErrInvalidSetting, mode)
	}
	return s.repository.UpdateRatingMode(ctx, userID, mode)
}

func (s *SettingsService) UpdateBatchSize(ctx context.Context, userID int64, size int) error {
	if size < 1 || size > MaxBatchSize {
		return fmt.Errorf("%w: batch size %d", ErrInvalidSetting, size)
	}
	return s.repository.UpdateBatchSize(ctx, userID, size)
}
