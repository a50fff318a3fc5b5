package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres"
)

// ReminderRepository provides access to user reminder data in the database.
type ReminderRepository struct {
	db postgres.DBTX
}

// NewRemindersRepository creates a new ReminderRepository with the provided database pool.
func NewRemindersRepository(db postgres.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// GetDueReminders returns active users with reminders enabled and at least one
// review due at now. Users without a user_reminders row count as enabled.
func (r *ReminderRepository) GetDueReminders(ctx context.Context, now time.Time) ([]*entities.DueReminder, error) {
	query := `
		SELECT u.id, u.chat_id, COUNT(p.word_id) AS due_count, ur.last_sent_at
		FROM users u
		JOIN user_progress p ON p.user_id = u.id
		LEFT JOIN user_reminders ur ON ur.user_id = u.id
		WHERE u.is_active
		  AND COALESCE(ur.is_enabled, TRUE)
		  AND p.status <> 'new'
		  AND p.due <= $1
		GROUP BY u.id, u.chat_id, ur.last_sent_at
		ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("get due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*entities.DueReminder
	for rows.Next() {
		var (
			rem      entities.DueReminder
			lastSent pgtype.Timestamptz
		)
		if err := rows.Scan(&rem.UserID, &rem.ChatID, &rem.DueCount, &lastSent); err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		if lastSent.Valid {
			t := lastSent.Time
			rem.LastSentAt = &t
		}
		reminders = append(reminders, &rem)
	}

	return reminders, rows.Err()
}

// MarkAsSent records when the last reminder went out.
func (r *ReminderRepository) MarkAsSent(ctx context.Context, userID int64, sentAt time.Time) error {
	query := `
		INSERT INTO user_reminders (user_id, is_enabled, last_sent_at, updated_at)
		VALUES ($1, TRUE, $2, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			last_sent_at = EXCLUDED.last_sent_at,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, userID, sentAt); err != nil {
		return fmt.Errorf("mark reminder as sent: %w", err)
	}

	return nil
}

// SetEnabled turns reminders on or off for a user.
func (r *ReminderRepository) SetEnabled(ctx context.Context, userID int64, enabled bool) error {
	query := `
		INSERT INTO user_reminders (user_id, is_enabled, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, userID, enabled); err != nil {
		return fmt.Errorf("set reminders enabled: %w", err)
	}

	return nil
}
