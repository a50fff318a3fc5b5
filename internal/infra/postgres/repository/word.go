package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres"
)

// WordRepository is the read-only content source of vocabulary items.
type WordRepository struct {
	db postgres.DBTX
}

func NewWordRepository(db postgres.DBTX) *WordRepository {
	return &WordRepository{db: db}
}

// ListByScope returns every word of a scope in creation order.
// Empty scope means every scope.
func (r *WordRepository) ListByScope(ctx context.Context, scope string) ([]entities.WordItem, error) {
	query := `
		SELECT id, native, target, scope, created_at
		FROM words
		WHERE ($1 = '' OR scope = $1)
		ORDER BY created_at, id
	`

	return r.list(ctx, "list words by scope", query, scope)
}

// ListUnstudied returns words of a scope that are new to the user, in creation
// order: words without a progress record and due records still in status new.
func (r *WordRepository) ListUnstudied(ctx context.Context, userID int64, scope string, now time.Time, limit int) ([]entities.WordItem, error) {
	query := `
		SELECT w.id, w.native, w.target, w.scope, w.created_at
		FROM words w
		LEFT JOIN user_progress p ON p.word_id = w.id AND p.user_id = $1
		WHERE (p.word_id IS NULL OR (p.status = 'new' AND p.due <= $3))
		  AND ($2 = '' OR w.scope = $2)
		ORDER BY w.created_at, w.id
		LIMIT $4
	`

	return r.list(ctx, "list unstudied words", query, userID, scope, now, limitArg(limit))
}

// GetByIDs returns the words with the given ids keyed by id.
func (r *WordRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]entities.WordItem, error) {
	query := `
		SELECT id, native, target, scope, created_at
		FROM words
		WHERE id = ANY($1::int8[])
	`

	words, err := r.list(ctx, "get words by ids", query, ids)
	if err != nil {
		return nil, err
	}

	res := make(map[int64]entities.WordItem, len(words))
	for _, w := range words {
		res[w.ID] = w
	}
	return res, nil
}

// Scopes returns the distinct non-empty scopes in alphabetical order.
func (r *WordRepository) Scopes(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT scope FROM words WHERE scope <> '' ORDER BY scope`)
	if err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}

	return scopes, rows.Err()
}

func (r *WordRepository) list(ctx context.Context, op, query string, args ...any) ([]entities.WordItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var words []entities.WordItem
	for rows.Next() {
		var w entities.WordItem
		if err := rows.Scan(&w.ID, &w.Native, &w.Target, &w.Scope, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}

	return words, rows.Err()
}
