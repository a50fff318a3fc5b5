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

var ErrProgressNotFound = errors.New("progress not found")

const progressColumns = `
	p.user_id, p.word_id, p.kind, p.status, p.state, p.due,
	p.stability, p.difficulty, p.elapsed_days, p.scheduled_days, p.learning_steps,
	p.reps, p.lapses, p.last_review,
	p.interval_days, p.ease_factor, p.streak, p.mistake_count,
	p.created_at, p.updated_at`

// ProgressRepository provides access to user progress data in the database.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository with the provided database pool.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert replaces the whole progress record of (user, word).
// Every column is overwritten so model and legacy fields never mix across writes.
func (r *ProgressRepository) Upsert(ctx context.Context, p *entities.ProgressRecord) error {
	query := `
		INSERT INTO user_progress (
			user_id, word_id, kind, status, state, due,
			stability, difficulty, elapsed_days, scheduled_days, learning_steps,
			reps, lapses, last_review,
			interval_days, ease_factor, streak, mistake_count,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
		ON CONFLICT (user_id, word_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			status = EXCLUDED.status,
			state = EXCLUDED.state,
			due = EXCLUDED.due,
			stability = EXCLUDED.stability,
			difficulty = EXCLUDED.difficulty,
			elapsed_days = EXCLUDED.elapsed_days,
			scheduled_days = EXCLUDED.scheduled_days,
			learning_steps = EXCLUDED.learning_steps,
			reps = EXCLUDED.reps,
			lapses = EXCLUDED.lapses,
			last_review = EXCLUDED.last_review,
			interval_days = EXCLUDED.interval_days,
			ease_factor = EXCLUDED.ease_factor,
			streak = EXCLUDED.streak,
			mistake_count = EXCLUDED.mistake_count,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	_, err := r.db.Exec(
		ctx,
		query,
		p.UserID,
		p.WordID,
		string(p.Kind),
		string(p.Status),
		int16(p.State),
		p.Due,
		p.Stability,
		p.Difficulty,
		p.ElapsedDays,
		p.ScheduledDays,
		p.LearningSteps,
		p.Reps,
		p.Lapses,
		p.LastReview,
		p.Interval,
		p.EaseFactor,
		p.Streak,
		p.MistakeCount,
		now,
	)

	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}

// Get retrieves a single progress record by userID and wordID.
func (r *ProgressRepository) Get(ctx context.Context, userID, wordID int64) (*entities.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress p
		WHERE p.user_id = $1 AND p.word_id = $2
	`

	p, err := scanProgress(r.db.QueryRow(ctx, query, userID, wordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return p, nil
}

// GetByWordIDs returns the progress records of the given words keyed by word id.
// Words without a record are absent from the map.
func (r *ProgressRepository) GetByWordIDs(ctx context.Context, userID int64, wordIDs []int64) (map[int64]*entities.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress p
		WHERE p.user_id = $1 AND p.word_id = ANY($2::int8[])
	`

	rows, err := r.db.Query(ctx, query, userID, wordIDs)
	if err != nil {
		return nil, fmt.Errorf("get progress by word ids: %w", err)
	}
	defer rows.Close()

	res := make(map[int64]*entities.ProgressRecord, len(wordIDs))
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		res[p.WordID] = p
	}

	return res, rows.Err()
}

// ListDue returns records that were answered at least once and are due at or
// before the given time, most overdue first. Empty scope means every scope.
// A non-positive limit returns all of them.
func (r *ProgressRepository) ListDue(
	ctx context.Context,
	userID int64,
	scope string,
	before time.Time,
	limit int,
) ([]*entities.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress p
		JOIN words w ON w.id = p.word_id
		WHERE p.user_id = $1
		  AND ($2 = '' OR w.scope = $2)
		  AND p.status <> 'new'
		  AND p.due <= $3
		ORDER BY p.due, p.word_id
		LIMIT $4
	`

	return r.list(ctx, "list due progress", query, userID, scope, before, limitArg(limit))
}

// ListByStatus returns records with the given status ordered by due time.
func (r *ProgressRepository) ListByStatus(
	ctx context.Context,
	userID int64,
	scope string,
	status entities.Status,
	limit int,
) ([]*entities.ProgressRecord, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress p
		JOIN words w ON w.id = p.word_id
		WHERE p.user_id = $1
		  AND ($2 = '' OR w.scope = $2)
		  AND p.status = $3
		ORDER BY p.due, p.word_id
		LIMIT $4
	`

	return r.list(ctx, "list progress by status", query, userID, scope, string(status), limitArg(limit))
}

// Stats returns a summary of the user's progress over the words of a scope.
func (r *ProgressRepository) Stats(ctx context.Context, userID int64, scope string, now time.Time) (*entities.ProgressStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE p.word_id IS NULL OR p.status = 'new') AS new_count,
			COUNT(*) FILTER (WHERE p.status = 'learning') AS learning_count,
			COUNT(*) FILTER (WHERE p.status = 'review') AS review_count,
			COUNT(*) FILTER (WHERE p.status = 'mastered') AS mastered_count,
			COUNT(*) FILTER (WHERE p.status <> 'new' AND p.due <= $3) AS due_now,
			COALESCE(SUM(p.reps), 0) AS reps,
			COALESCE(SUM(p.mistake_count), 0) AS mistakes
		FROM words w
		LEFT JOIN user_progress p ON p.word_id = w.id AND p.user_id = $1
		WHERE ($2 = '' OR w.scope = $2)
	`

	var stats entities.ProgressStats
	err := r.db.QueryRow(ctx, query, userID, scope, now).Scan(
		&stats.Total,
		&stats.NewCount,
		&stats.LearningCount,
		&stats.ReviewCount,
		&stats.MasteredCount,
		&stats.DueNow,
		&stats.Reps,
		&stats.Mistakes,
	)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	return &stats, nil
}

func (r *ProgressRepository) list(ctx context.Context, op, query string, args ...any) ([]*entities.ProgressRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*entities.ProgressRecord
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func scanProgress(row pgx.Row) (*entities.ProgressRecord, error) {
	var (
		p      entities.ProgressRecord
		kind   string
		status string
		state  int16
	)

	err := row.Scan(
		&p.UserID,
		&p.WordID,
		&kind,
		&status,
		&state,
		&p.Due,
		&p.Stability,
		&p.Difficulty,
		&p.ElapsedDays,
		&p.ScheduledDays,
		&p.LearningSteps,
		&p.Reps,
		&p.Lapses,
		&p.LastReview,
		&p.Interval,
		&p.EaseFactor,
		&p.Streak,
		&p.MistakeCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = entities.RecordKind(kind)
	p.Status = entities.Status(status)
	p.State = entities.MemoryState(state)
	return &p, nil
}

// limitArg turns a non-positive limit into NULL, which Postgres treats as no limit.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
