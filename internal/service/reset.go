package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/lexis-bot/internal/infra/postgres/repository"
)

type ResetService struct {
	tr Transactor
}

func NewResetService(
	tr Transactor,
) *ResetService {
	return &ResetService{
		tr: tr,
	}
}

// ResetUser deletes the user's progress in scope (all scopes when empty) and,
// for a full reset, restores default settings. It returns the number of
// progress records deleted.
func (s *ResetService) ResetUser(ctx context.Context, userID int64, scope string) (int64, error) {
	var deleted int64
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		resetRepo := repository.NewResetRepository(tx)

		n, err := resetRepo.ResetProgress(ctx, userID, scope)
		if err != nil {
			return err
		}
		deleted = n

		if scope != "" {
			return nil
		}

		settingsRepo := repository.NewSettingsRepository(tx)
		return settingsRepo.UpsertDefaults(ctx, userID)
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
