package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
	"github.com/aliskhannn/lexis-bot/internal/srs"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

// fakeRecorder accepts every answer without scheduling.
type fakeRecorder struct {
	fail bool
}

func (f fakeRecorder) RecordAnswer(_ context.Context, userID, wordID int64, _ entities.RatingMode, _ entities.Response) (*srs.Outcome, error) {
	if f.fail {
		return nil, service.ErrSyncFailure
	}
	return &srs.Outcome{Record: *entities.NewProgressRecord(userID, wordID)}, nil
}

func (f fakeRecorder) ApplyOptimistic(_ *entities.ProgressRecord, userID, wordID int64, _ entities.RatingMode, _ entities.Response, _ time.Time) (srs.Outcome, error) {
	return srs.Outcome{Record: *entities.NewProgressRecord(userID, wordID)}, nil
}

// stubPractice starts multiple-choice sessions over a fixed word list.
type stubPractice struct {
	engine *service.QuizEngine
	words  []entities.WordItem
	mode   entities.QuizMode
}

func (p *stubPractice) StartSession(_ context.Context, userID int64, scope string, mode entities.QuizMode) (*service.SessionState, error) {
	if len(p.words) == 0 {
		return nil, service.ErrNoCandidates
	}
	p.mode = mode

	cfg := entities.DefaultQuizConfig()
	cfg.Writing = false
	cfg.Seed = 1
	if mode != "" {
		cfg.Mode = mode
	}

	candidates := make([]entities.SessionCandidate, len(p.words))
	for i, w := range p.words {
		candidates[i] = entities.SessionCandidate{Word: w, Tier: entities.TierNew}
	}
	return p.engine.Start(userID, scope, candidates, p.words, cfg)
}

type stubProgress struct{}

func (stubProgress) GetProgressSummary(_ context.Context, _ int64, scope string) (*service.ProgressSummary, error) {
	return &service.ProgressSummary{
		Scope:      scope,
		Stats:      entities.ProgressStats{Total: 10, MasteredCount: 5},
		Percentage: 50,
	}, nil
}

type stubTokens map[string]int64

func (s stubTokens) Parse(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("unknown token")
}

func makeWords(n int) []entities.WordItem {
	out := make([]entities.WordItem, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = entities.WordItem{ID: id, Native: fmt.Sprintf("native-%d", id), Target: fmt.Sprintf("Target-%d", id)}
	}
	return out
}

type testServer struct {
	router   http.Handler
	sessions *storage.QuizStorage
	practice *stubPractice
}

func newTestServer(t *testing.T, rec service.AnswerRecorder, words []entities.WordItem) *testServer {
	t.Helper()
	engine := service.NewQuizEngine(rec, service.NewAnswerValidator(), service.NewSyncNotifier(0), zap.NewNop())
	practice := &stubPractice{engine: engine, words: words}
	sessions := storage.NewQuizStorage()

	h := NewHandler(practice, engine, stubProgress{}, sessions, zap.NewNop())
	return &testServer{
		router:   NewRouter(h, stubTokens{"good": 7}, []string{"*"}, zap.NewNop()),
		sessions: sessions,
		practice: practice,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// current returns the question the session of user 7 is waiting on.
func (s *testServer) current(t *testing.T) entities.QuizQuestion {
	t.Helper()
	var q entities.QuizQuestion
	require.NoError(t, s.sessions.Do(7, func(st *service.SessionState) error {
		q = st.Questions[st.Index]
		return nil
	}))
	return q
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))

	for _, header := range []string{"", "Bearer", "Basic good", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		s.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))

	rr := s.do(t, http.MethodPost, "/api/session", startRequest{Scope: "unit-1"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	started := decode[sessionDTO](t, rr)
	assert.Equal(t, "unit-1", started.Scope)
	require.NotNil(t, started.Question)
	assert.Len(t, started.Question.Options, 4)
	assert.NotContains(t, rr.Body.String(), "correct_index")

	for i := 0; i < 4; i++ {
		q := s.current(t)

		rr = s.do(t, http.MethodPost, "/api/answers", map[string]int{"selected_index": q.CorrectIndex})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		res := decode[answerResponse](t, rr)
		assert.True(t, res.Correct)
		assert.Equal(t, q.CorrectAnswer, res.CorrectAnswer)
	}

	assert.ErrorIs(t, s.sessions.Do(7, func(*service.SessionState) error { return nil }), storage.ErrNoSession,
		"completed sessions are dropped")

	rr = s.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLearnModeAcknowledge(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))

	rr := s.do(t, http.MethodPost, "/api/session", startRequest{Mode: entities.ModeLearn})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, entities.ModeLearn, s.practice.mode)

	wrong := (s.current(t).CorrectIndex + 1) % 4

	rr = s.do(t, http.MethodPost, "/api/answers", map[string]int{"selected_index": wrong})
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[answerResponse](t, rr)
	assert.False(t, res.Correct)
	assert.Equal(t, service.StepPendingRetryAck, res.Step)
	assert.Nil(t, res.Session.Question)

	rr = s.do(t, http.MethodPost, "/api/answers", map[string]int{"selected_index": 0})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/session/ack", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	next := decode[sessionDTO](t, rr)
	require.NotNil(t, next.Question)
	assert.Equal(t, 1, next.Question.Index)
}

func TestSyncFailureIsReported(t *testing.T) {
	s := newTestServer(t, fakeRecorder{fail: true}, makeWords(4))

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/session", nil).Code)

	rr := s.do(t, http.MethodPost, "/api/answers", map[string]string{"text": "x"})
	require.Equal(t, http.StatusOK, rr.Code)

	res := decode[answerResponse](t, rr)
	assert.True(t, res.SyncFailed)
	assert.Equal(t, syncWarning, res.Warning)
	assert.NotNil(t, res.Session.Question, "the session goes on")
}

func TestStartSessionErrors(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, nil)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/session", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/session", startRequest{Mode: "exam"}).Code)
}

func TestStopSession(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/session", nil).Code)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/session", nil).Code)
	rr := s.do(t, http.MethodDelete, "/api/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, entities.QuizScore{Rounds: 1}, decode[entities.QuizScore](t, rr))
}

func TestStopWhileAnswering(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/session", nil).Code)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.do(t, http.MethodPost, "/api/answers", map[string]int{"selected_index": 0})
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		rr := s.do(t, http.MethodDelete, "/api/session", nil)
		assert.Contains(t, []int{http.StatusOK, http.StatusNotFound}, rr.Code)
	}()

	wg.Wait()
	assert.ErrorIs(t, s.sessions.Do(7, func(*service.SessionState) error { return nil }), storage.ErrNoSession)
}

func TestGetProgress(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))

	rr := s.do(t, http.MethodGet, "/api/progress?scope=unit-2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	p := decode[progressDTO](t, rr)
	assert.Equal(t, "unit-2", p.Scope)
	assert.Equal(t, 10, p.Total)
	assert.Equal(t, 5, p.Mastered)
	assert.InDelta(t, 50.0, p.Percentage, 1e-9)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t, fakeRecorder{}, makeWords(4))
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/session", nil).Code)

	tests := []struct {
		name string
		body map[string]int
		want string
	}{
		{name: "index too large", body: map[string]int{"selected_index": 4}, want: "selected_index"},
		{name: "negative index", body: map[string]int{"selected_index": -1}, want: "selected_index"},
		{name: "quality out of range", body: map[string]int{"quality": 9}, want: "quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/answers", tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decode[map[string]string](t, rr)["error"], tt.want)
		})
	}

	rr := s.do(t, http.MethodPost, "/api/session", startRequest{Mode: "exam"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "mode")
}
