package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/srs"
)

const defaultSyncTimeout = 5 * time.Second

// AnswerRecorder persists answers and predicts their effect locally.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, userID, wordID int64, mode entities.RatingMode, resp entities.Response) (*srs.Outcome, error)
	ApplyOptimistic(local *entities.ProgressRecord, userID, wordID int64, mode entities.RatingMode, resp entities.Response, now time.Time) (srs.Outcome, error)
}

// AnswerResult describes the evaluation of one answer.
type AnswerResult struct {
	Question entities.QuizQuestion
	Correct  bool
	Close    bool // writing only: wrong but nearly right
	Step     Step // step the session moved to

	Outcome *srs.Outcome // persisted record, nil when the write failed
	SyncErr error        // write failure; the session goes on regardless
	Warn    bool         // the caller should show a sync warning now
}

// QuizEngine drives quiz sessions: question generation, answer evaluation,
// progress writes and retry rounds.
type QuizEngine struct {
	progress  AnswerRecorder
	validator *AnswerValidator
	notifier  *SyncNotifier
	logger    *zap.Logger

	now func() time.Time
}

// NewQuizEngine creates a new QuizEngine.
func NewQuizEngine(
	progress AnswerRecorder,
	validator *AnswerValidator,
	notifier *SyncNotifier,
	logger *zap.Logger,
) *QuizEngine {
	return &QuizEngine{
		progress:  progress,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins a session over candidates in their given order. pool is the
// full word list distractors are drawn from; candidate words are added to it.
//
// Start returns ErrNoCandidates when candidates is empty and ErrPoolTooSmall
// when multiple choice is the only enabled type and the pool has fewer than
// four distinct answers. With both types enabled such a pool downgrades the
// session to writing only.
func (e *QuizEngine) Start(
	userID int64,
	scope string,
	candidates []entities.SessionCandidate,
	pool []entities.WordItem,
	cfg entities.QuizConfig,
) (*SessionState, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	words := make([]entities.WordItem, 0, len(candidates))
	local := make(map[int64]*entities.ProgressRecord, len(candidates))
	for _, c := range candidates {
		words = append(words, c.Word)
		if c.Progress != nil {
			local[c.Word.ID] = c.Progress.Clone()
		}
	}
	words = uniqueKeepOrder(words, itemID)
	if len(words) == 0 {
		return nil, ErrNoCandidates
	}

	full := uniqueKeepOrder(append(append([]entities.WordItem(nil), pool...), words...), itemID)
	if cfg.MultipleChoice && distinctAnswers(full, cfg.MCDirection.Answer()) < OptionsCount {
		if !cfg.Writing {
			return nil, ErrPoolTooSmall
		}
		e.logger.Info("word pool too small for multiple choice, using writing only",
			zap.Int64("user_id", userID),
			zap.String("scope", scope),
			zap.Int("pool", len(full)),
		)
		cfg.MultipleChoice = false
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	st := &SessionState{
		ID:        uuid.New(),
		UserID:    userID,
		Scope:     scope,
		Config:    cfg,
		StartedAt: e.now(),
		Phase:     PhasePlaying,
		Local:     local,
		inRetry:   make(map[int64]struct{}),
		mastered:  make(map[int64]struct{}),
		rng:       rng,
		options:   NewOptionGenerator(full, rng),
	}

	first := takeFirst(words, cfg.BatchSize)
	st.pending = words[len(first):]
	if err := e.beginRound(st, first); err != nil {
		return nil, err
	}

	return st, nil
}

// Current returns the question being asked.
func (e *QuizEngine) Current(st *SessionState) (*entities.QuizQuestion, error) {
	if st.Complete() {
		return nil, ErrSessionComplete
	}
	q := st.Questions[st.Index]
	return &q, nil
}

// Answer evaluates in against the current question and records it.
// A failed progress write is reported in the result and never stops the session.
func (e *QuizEngine) Answer(ctx context.Context, st *SessionState, in entities.AnswerInput) (*AnswerResult, error) {
	if st.Complete() {
		return nil, ErrSessionComplete
	}
	if st.Step != StepAwaitingAnswer {
		return nil, ErrInvalidTransition
	}
	st.Step = StepLocked

	q := st.Questions[st.Index]
	res := &AnswerResult{Question: q}

	switch q.Type {
	case entities.QuestionMultipleChoice:
		res.Correct = in.SelectedIndex == q.CorrectIndex
	default:
		v := e.validator.Validate(in.Text, q.CorrectAnswer, q.Direction.Answer())
		res.Correct, res.Close = v.Correct, v.Close
	}

	st.TotalAnswered++

	resp := entities.CorrectResponse(res.Correct)
	if res.Correct {
		// A wrong answer is always graded Again, whatever the self-grade says.
		resp.Quality = in.Quality
	}
	e.sync(ctx, st, q.Word.ID, resp, res)

	if res.Correct {
		st.CorrectCount++
		st.mastered[q.Word.ID] = struct{}{}
		st.Step = StepAdvancing
	} else {
		st.enqueueRetry(q.Word)
		if st.Config.Mode == entities.ModeLearn {
			st.Step = StepPendingRetryAck
		} else {
			st.Step = StepAdvancing
		}
	}

	res.Step = st.Step
	return res, nil
}

// Acknowledge confirms a wrong answer in learn mode.
func (e *QuizEngine) Acknowledge(st *SessionState) error {
	if st.Complete() {
		return ErrSessionComplete
	}
	if st.Step != StepPendingRetryAck {
		return ErrInvalidTransition
	}
	st.Step = StepAdvancing
	return nil
}

// Next moves to the following question, starting a new round when the batch
// is exhausted. It returns nil once the session is complete.
func (e *QuizEngine) Next(st *SessionState) (*entities.QuizQuestion, error) {
	if st.Complete() {
		return nil, ErrSessionComplete
	}
	if st.Step != StepAdvancing {
		return nil, ErrInvalidTransition
	}

	st.Index++
	if st.Index < len(st.Questions) {
		st.Step = StepAwaitingAnswer
		return e.Current(st)
	}

	if len(st.retry) == 0 && len(st.pending) == 0 {
		st.Phase = PhaseComplete
		st.Step = ""
		return nil, nil
	}

	fresh := takeFirst(st.pending, st.Config.BatchSize-len(st.retry))
	st.pending = st.pending[len(fresh):]

	batch := make([]entities.WordItem, 0, len(st.retry)+len(fresh))
	batch = append(batch, st.retry...)
	batch = append(batch, fresh...)
	st.rng.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })

	st.retry = nil
	clear(st.inRetry)

	if err := e.beginRound(st, batch); err != nil {
		return nil, err
	}
	return e.Current(st)
}

// Score returns the session score; TotalAnswered counts replayed questions too.
func (e *QuizEngine) Score(st *SessionState) entities.QuizScore {
	return st.Score()
}

func (e *QuizEngine) beginRound(st *SessionState, words []entities.WordItem) error {
	questions := make([]entities.QuizQuestion, 0, len(words))
	for i, w := range words {
		q, err := e.buildQuestion(st, w, i)
		if err != nil {
			return err
		}
		questions = append(questions, q)
	}

	st.Round++
	st.Questions = questions
	st.Index = 0
	st.Step = StepAwaitingAnswer
	return nil
}

// buildQuestion alternates multiple choice (even index) and writing (odd index)
// when both are enabled.
func (e *QuizEngine) buildQuestion(st *SessionState, w entities.WordItem, index int) (entities.QuizQuestion, error) {
	cfg := st.Config

	typ := entities.QuestionWriting
	if cfg.MultipleChoice && (!cfg.Writing || index%2 == 0) {
		typ = entities.QuestionMultipleChoice
	}

	dir := cfg.WritingDirection
	if typ == entities.QuestionMultipleChoice {
		dir = cfg.MCDirection
	}

	q := entities.QuizQuestion{
		Word:          w,
		Type:          typ,
		Direction:     dir,
		Prompt:        w.Text(dir.Prompt()),
		CorrectAnswer: w.Text(dir.Answer()),
	}

	if typ == entities.QuestionMultipleChoice {
		options, idx, err := st.options.GenerateOptions(w, dir.Answer())
		if err != nil {
			return entities.QuizQuestion{}, err
		}
		q.Options = options
		q.CorrectIndex = idx
	}

	return q, nil
}

// sync updates the local projection first, then writes through with a timeout
// and replaces the projection with the stored record on success.
func (e *QuizEngine) sync(ctx context.Context, st *SessionState, wordID int64, resp entities.Response, res *AnswerResult) {
	now := e.now()
	mode := st.Config.RatingMode

	if opt, err := e.progress.ApplyOptimistic(st.Local[wordID], st.UserID, wordID, mode, resp, now); err == nil {
		rec := opt.Record
		st.Local[wordID] = &rec
	} else {
		e.logger.Debug("optimistic update skipped", zap.Int64("word_id", wordID), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(ctx, st.Config.SyncTimeout)
	defer cancel()

	out, err := e.progress.RecordAnswer(ctx, st.UserID, wordID, mode, resp)
	if err != nil {
		res.SyncErr = err
		res.Warn = e.notifier.Allow(st.UserID, now)
		e.logger.Warn("progress sync failed",
			zap.Int64("user_id", st.UserID),
			zap.Int64("word_id", wordID),
			zap.Stringer("session_id", st.ID),
			zap.Error(err),
		)
		return
	}

	rec := out.Record
	st.Local[wordID] = &rec
	res.Outcome = out
}

func normalizeConfig(cfg entities.QuizConfig) (entities.QuizConfig, error) {
	if !cfg.MultipleChoice && !cfg.Writing {
		return cfg, ErrNoQuestionTypes
	}
	if !cfg.MCDirection.IsValid() {
		cfg.MCDirection = entities.DirectionTargetToNative
	}
	if !cfg.WritingDirection.IsValid() {
		cfg.WritingDirection = entities.DirectionNativeToTarget
	}
	if cfg.RatingMode != entities.RatingFourLevel {
		cfg.RatingMode = entities.RatingBinary
	}
	if cfg.Mode != entities.ModeLearn {
		cfg.Mode = entities.ModeQuiz
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = entities.DefaultBatchSize
	}
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = defaultSyncTimeout
	}
	return cfg, nil
}

func itemID(w entities.WordItem) int64 { return w.ID }
