package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository provides access to user settings data in the database.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create creates default settings for a user.
func (r *SettingsRepository) Create(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_settings (
			user_id, question_types, mode, rating_mode, batch_size, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	d := entities.NewUserSettings(userID)
	_, err := r.db.Exec(ctx, query, userID, string(d.QuestionTypes), string(d.Mode), string(d.RatingMode), d.BatchSize)
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}

	return nil
}

// GetByUserID retrieves settings for a user.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserSettings, error) {
	query := `
		SELECT user_id, question_types, mode, rating_mode, batch_size, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var (
		settings                    entities.UserSettings
		types, mode, ratingModeText string
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&types,
		&mode,
		&ratingModeText,
		&settings.BatchSize,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.QuestionTypes = entities.QuestionTypes(types)
	settings.Mode = entities.QuizMode(mode)
	settings.RatingMode = entities.RatingMode(ratingModeText)
	return &settings, nil
}

// UpsertDefaults resets a user's settings to the defaults.
func (r *SettingsRepository) UpsertDefaults(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO user_settings (
			user_id, question_types, mode, rating_mode, batch_size, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET question_types = EXCLUDED.question_types,
		    mode = EXCLUDED.mode,
		    rating_mode = EXCLUDED.rating_mode,
		    batch_size = EXCLUDED.batch_size,
		    updated_at = NOW()
	`

	d := entities.NewUserSettings(userID)
	_, err := r.db.Exec(ctx, query, userID, string(d.QuestionTypes), string(d.Mode), string(d.RatingMode), d.BatchSize)
	if err != nil {
		return fmt.Errorf("upsert default settings: %w", err)
	}
	return nil
}

// UpdateQuestionTypes updates which question kinds the user practices with.
func (r *SettingsRepository) UpdateQuestionTypes(ctx context.Context, userID int64, types entities.QuestionTypes) error {
	return r.update(ctx, "update question types", "question_types", string(types), userID)
}

// UpdateMode updates the quiz mode setting.
func (r *SettingsRepository) UpdateMode(ctx context.Context, userID int64, mode entities.QuizMode) error {
	return r.update(ctx, "update quiz mode", "mode", string(mode), userID)
}

// UpdateRatingMode updates how answers are graded.
func (r *SettingsRepository) UpdateRatingMode(ctx context.Context, userID int64, mode entities.RatingMode) error {
	return r.update(ctx, "update rating mode", "rating_mode", string(mode), userID)
}

// UpdateBatchSize updates the number of questions per round.
func (r *SettingsRepository) UpdateBatchSize(ctx context.Context, userID int64, size int) error {
	return r.update(ctx, "update batch size", "batch_size", size, userID)
}

// update sets a single column. column is always one of the constants above.
func (r *SettingsRepository) update(ctx context.Context, op, column string, value any, userID int64) error {
	query := `
		UPDATE user_settings
		SET ` + column + ` = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := r.db.Exec(ctx, query, value, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
