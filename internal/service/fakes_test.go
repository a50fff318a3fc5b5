package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/lexis-bot/internal/srs"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type progressKey struct {
	userID, wordID int64
}

// memStore is an in-memory ProgressRepository and WordRepository.
type memStore struct {
	mu      sync.Mutex
	words   []entities.WordItem
	records map[progressKey]*entities.ProgressRecord
	upserts int
}

func newMemStore(words ...entities.WordItem) *memStore {
	return &memStore{
		words:   words,
		records: make(map[progressKey]*entities.ProgressRecord),
	}
}

func (m *memStore) put(p *entities.ProgressRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[progressKey{p.UserID, p.WordID}] = p.Clone()
}

func (m *memStore) inScope(wordID int64, scope string) bool {
	for _, w := range m.words {
		if w.ID == wordID {
			return scope == "" || w.Scope == scope
		}
	}
	return false
}

func (m *memStore) Get(_ context.Context, userID, wordID int64) (*entities.ProgressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[progressKey{userID, wordID}]
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	return p.Clone(), nil
}

func (m *memStore) Upsert(_ context.Context, p *entities.ProgressRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.records[progressKey{p.UserID, p.WordID}] = p.Clone()
	return nil
}

func (m *memStore) GetByWordIDs(_ context.Context, userID int64, wordIDs []int64) (map[int64]*entities.ProgressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]*entities.ProgressRecord)
	for _, id := range wordIDs {
		if p, ok := m.records[progressKey{userID, id}]; ok {
			out[id] = p.Clone()
		}
	}
	return out, nil
}

func (m *memStore) filter(userID int64, scope string, keep func(p *entities.ProgressRecord) bool, limit int) []*entities.ProgressRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entities.ProgressRecord
	for k, p := range m.records {
		if k.userID == userID && m.inScope(k.wordID, scope) && keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Due.Equal(out[j].Due) {
			return out[i].WordID < out[j].WordID
		}
		return out[i].Due.Before(out[j].Due)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memStore) ListDue(_ context.Context, userID int64, scope string, before time.Time, limit int) ([]*entities.ProgressRecord, error) {
	return m.filter(userID, scope, func(p *entities.ProgressRecord) bool {
		return p.Status != entities.StatusNew && !p.Due.After(before)
	}, limit), nil
}

func (m *memStore) ListByStatus(_ context.Context, userID int64, scope string, status entities.Status, limit int) ([]*entities.ProgressRecord, error) {
	return m.filter(userID, scope, func(p *entities.ProgressRecord) bool {
		return p.Status == status
	}, limit), nil
}

func (m *memStore) Stats(_ context.Context, userID int64, scope string, now time.Time) (*entities.ProgressStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s entities.ProgressStats
	for _, w := range m.words {
		if scope != "" && w.Scope != scope {
			continue
		}
		s.Total++
		p, ok := m.records[progressKey{userID, w.ID}]
		if !ok {
			s.NewCount++
			continue
		}
		switch p.Status {
		case entities.StatusNew:
			s.NewCount++
		case entities.StatusLearning:
			s.LearningCount++
		case entities.StatusReview:
			s.ReviewCount++
		case entities.StatusMastered:
			s.MasteredCount++
		}
		if p.IsDue(now) {
			s.DueNow++
		}
		s.Reps += p.Reps
		s.Mistakes += p.MistakeCount
	}
	return &s, nil
}

func (m *memStore) ListByScope(_ context.Context, scope string) ([]entities.WordItem, error) {
	var out []entities.WordItem
	for _, w := range m.words {
		if scope == "" || w.Scope == scope {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) ListUnstudied(_ context.Context, userID int64, scope string, now time.Time, limit int) ([]entities.WordItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.WordItem
	for _, w := range m.words {
		if scope != "" && w.Scope != scope {
			continue
		}
		if p, ok := m.records[progressKey{userID, w.ID}]; ok && (p.Status != entities.StatusNew || p.Due.After(now)) {
			continue
		}
		out = append(out, w)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) GetByIDs(_ context.Context, ids []int64) (map[int64]entities.WordItem, error) {
	out := make(map[int64]entities.WordItem)
	for _, w := range m.words {
		for _, id := range ids {
			if w.ID == id {
				out[id] = w
			}
		}
	}
	return out, nil
}

func (m *memStore) Scopes(context.Context) ([]string, error) {
	set := map[string]struct{}{}
	for _, w := range m.words {
		if w.Scope != "" {
			set[w.Scope] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// mockProgressRepo is a testify mock for failure injection.
type mockProgressRepo struct {
	mock.Mock
}

func (m *mockProgressRepo) Get(ctx context.Context, userID, wordID int64) (*entities.ProgressRecord, error) {
	args := m.Called(ctx, userID, wordID)
	p, _ := args.Get(0).(*entities.ProgressRecord)
	return p, args.Error(1)
}

func (m *mockProgressRepo) Upsert(ctx context.Context, p *entities.ProgressRecord) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProgressRepo) GetByWordIDs(ctx context.Context, userID int64, wordIDs []int64) (map[int64]*entities.ProgressRecord, error) {
	args := m.Called(ctx, userID, wordIDs)
	res, _ := args.Get(0).(map[int64]*entities.ProgressRecord)
	return res, args.Error(1)
}

func (m *mockProgressRepo) ListDue(ctx context.Context, userID int64, scope string, before time.Time, limit int) ([]*entities.ProgressRecord, error) {
	args := m.Called(ctx, userID, scope, before, limit)
	res, _ := args.Get(0).([]*entities.ProgressRecord)
	return res, args.Error(1)
}

func (m *mockProgressRepo) ListByStatus(ctx context.Context, userID int64, scope string, status entities.Status, limit int) ([]*entities.ProgressRecord, error) {
	args := m.Called(ctx, userID, scope, status, limit)
	res, _ := args.Get(0).([]*entities.ProgressRecord)
	return res, args.Error(1)
}

func (m *mockProgressRepo) Stats(ctx context.Context, userID int64, scope string, now time.Time) (*entities.ProgressStats, error) {
	args := m.Called(ctx, userID, scope, now)
	res, _ := args.Get(0).(*entities.ProgressStats)
	return res, args.Error(1)
}

func makeWords(n int, scope string) []entities.WordItem {
	out := make([]entities.WordItem, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = entities.WordItem{
			ID:        id,
			Native:    fmt.Sprintf("native-%d", id),
			Target:    fmt.Sprintf("Target-%d", id),
			Scope:     scope,
			CreatedAt: t0.Add(time.Duration(id) * time.Minute),
		}
	}
	return out
}

func candidatesOf(ws []entities.WordItem) []entities.SessionCandidate {
	out := make([]entities.SessionCandidate, len(ws))
	for i, w := range ws {
		out[i] = entities.SessionCandidate{Word: w, Tier: entities.TierNew, Scope: w.Scope}
	}
	return out
}

func newTestProgressService(t *testing.T, repo ProgressRepository) *ProgressService {
	t.Helper()
	model, err := srs.NewModelScheduler(srs.ModelConfig{})
	require.NoError(t, err)

	s := NewProgressService(repo, model, srs.NewLegacyScheduler(), zap.NewNop())
	s.now = fixedClock(t0)
	return s
}
