package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/lexis-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetProgress deletes the user's progress on the words of a scope.
// Empty scope deletes all of it. It returns the number of deleted records.
func (s *ResetRepository) ResetProgress(ctx context.Context, userID int64, scope string) (int64, error) {
	query := `
		DELETE FROM user_progress p
		USING words w
		WHERE w.id = p.word_id
		  AND p.user_id = $1
		  AND ($2 = '' OR w.scope = $2)
	`

	tag, err := s.db.Exec(ctx, query, userID, scope)
	if err != nil {
		return 0, fmt.Errorf("delete user_progress: %w", err)
	}

	return tag.RowsAffected(), nil
}
