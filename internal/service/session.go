package service

import (
	"context"
	"time"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// DefaultSessionLimit is the session size used when the caller passes none.
const DefaultSessionLimit = 20

// SessionService assembles practice sessions by strict priority:
// due reviews, then learning words, then new words.
type SessionService struct {
	progressRepo ProgressRepository
	wordRepo     WordRepository

	now func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(progressRepo ProgressRepository, wordRepo WordRepository) *SessionService {
	return &SessionService{
		progressRepo: progressRepo,
		wordRepo:     wordRepo,
		now:          time.Now,
	}
}

// BuildSession returns at most limit candidates of scope for userID.
// Empty scope means every scope; a non-positive limit uses DefaultSessionLimit.
// Nothing to study yields an empty slice, not an error.
func (s *SessionService) BuildSession(
	ctx context.Context,
	userID int64,
	scope string,
	limit int,
) ([]entities.SessionCandidate, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	now := s.now().UTC()

	out := make([]entities.SessionCandidate, 0, limit)
	seen := make(map[int64]struct{}, limit)

	out, err := s.fillFromRecords(ctx, out, seen, entities.TierDue, scope, limit,
		func(n int) ([]*entities.ProgressRecord, error) {
			return s.progressRepo.ListDue(ctx, userID, scope, now, n)
		})
	if err != nil {
		return nil, err
	}
	if len(out) >= limit {
		return out, nil
	}

	// Due learning words were taken above and are skipped here.
	out, err = s.fillFromRecords(ctx, out, seen, entities.TierLearning, scope, limit,
		func(n int) ([]*entities.ProgressRecord, error) {
			return s.progressRepo.ListByStatus(ctx, userID, scope, entities.StatusLearning, n)
		})
	if err != nil {
		return nil, err
	}
	remaining := limit - len(out)
	if remaining <= 0 {
		return out, nil
	}

	// New words include ones failed on first sight by the legacy scheduler,
	// which keep status new until answered correctly.
	fresh, err := s.wordRepo.ListUnstudied(ctx, userID, scope, now, remaining)
	if err != nil {
		return nil, err
	}
	fresh = uniqueKeepOrder(fresh, func(w entities.WordItem) int64 { return w.ID })

	freshIDs := make([]int64, len(fresh))
	for i, w := range fresh {
		freshIDs[i] = w.ID
	}
	var records map[int64]*entities.ProgressRecord
	if len(freshIDs) > 0 {
		records, err = s.progressRepo.GetByWordIDs(ctx, userID, freshIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, w := range fresh {
		if len(out) >= limit {
			break
		}
		if _, ok := seen[w.ID]; ok {
			continue
		}
		seen[w.ID] = struct{}{}

		c := entities.SessionCandidate{Word: w, Tier: entities.TierNew, Scope: scope}
		if p, ok := records[w.ID]; ok {
			c.Progress = p.Clone()
		}
		out = append(out, c)
	}

	return out, nil
}

// fillFromRecords appends candidates from list until out holds limit entries
// or list runs dry. Selected words and words gone from the content source do
// not count, so the fetch grows until it reaches past them.
func (s *SessionService) fillFromRecords(
	ctx context.Context,
	out []entities.SessionCandidate,
	seen map[int64]struct{},
	tier entities.Tier,
	scope string,
	limit int,
	list func(n int) ([]*entities.ProgressRecord, error),
) ([]entities.SessionCandidate, error) {
	n := limit + len(seen)
	for {
		records, err := list(n)
		if err != nil {
			return nil, err
		}

		out, err = s.appendRecords(ctx, out, seen, records, tier, scope, limit)
		if err != nil {
			return nil, err
		}
		if len(out) >= limit || len(records) < n {
			return out, nil
		}
		n *= 2
	}
}

// appendRecords resolves the words of records and appends them as candidates
// in record order, skipping words already selected or no longer in the content source.
func (s *SessionService) appendRecords(
	ctx context.Context,
	out []entities.SessionCandidate,
	seen map[int64]struct{},
	records []*entities.ProgressRecord,
	tier entities.Tier,
	scope string,
	limit int,
) ([]entities.SessionCandidate, error) {
	records = uniqueKeepOrder(records, func(p *entities.ProgressRecord) int64 { return p.WordID })
	records = filterUnseen(records, seen)
	if len(records) == 0 || len(out) >= limit {
		return out, nil
	}

	ids := make([]int64, len(records))
	for i, p := range records {
		ids[i] = p.WordID
	}

	words, err := s.wordRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range records {
		if len(out) >= limit {
			break
		}
		w, ok := words[p.WordID]
		if !ok {
			continue
		}
		seen[p.WordID] = struct{}{}
		out = append(out, entities.SessionCandidate{Word: w, Progress: p.Clone(), Tier: tier, Scope: scope})
	}

	return out, nil
}

func filterUnseen(records []*entities.ProgressRecord, seen map[int64]struct{}) []*entities.ProgressRecord {
	out := make([]*entities.ProgressRecord, 0, len(records))
	for _, p := range records {
		if _, ok := seen[p.WordID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// uniqueKeepOrder removes duplicates by key while preserving the original order.
func uniqueKeepOrder[T any, K comparable](in []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// takeFirst returns the first n elements of in, or the whole slice if it is shorter.
func takeFirst[T any](in []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(in) <= n {
		return in
	}
	return in[:n]
}
