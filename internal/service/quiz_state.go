package service

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// Phase is the top-level state of a quiz session.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseComplete Phase = "complete"
)

// Step is the sub-state of a playing session.
type Step string

const (
	StepAwaitingAnswer  Step = "awaiting_answer"
	StepLocked          Step = "locked"
	StepAdvancing       Step = "advancing"
	StepPendingRetryAck Step = "pending_retry_ack"
)

// SessionState is one learner's quiz in progress. The caller owns it and
// passes it to every QuizEngine call; it is not safe for concurrent use.
type SessionState struct {
	ID        uuid.UUID
	UserID    int64
	Scope     string
	Config    entities.QuizConfig
	StartedAt time.Time

	Phase     Phase
	Step      Step
	Round     int
	Index     int // position in Questions
	Questions []entities.QuizQuestion

	CorrectCount  int
	TotalAnswered int

	// Local is the optimistic projection of the learner's progress, keyed by word id.
	Local map[int64]*entities.ProgressRecord

	pending  []entities.WordItem // candidates not asked yet, in session order
	retry    []entities.WordItem
	inRetry  map[int64]struct{}
	mastered map[int64]struct{}

	rng     *rand.Rand
	options *OptionGenerator
}

// Complete reports whether the session has finished.
func (s *SessionState) Complete() bool {
	return s.Phase == PhaseComplete
}

// RetryQueue returns the ids of words waiting to be asked again, in order.
func (s *SessionState) RetryQueue() []int64 {
	ids := make([]int64, len(s.retry))
	for i, w := range s.retry {
		ids[i] = w.ID
	}
	return ids
}

// Mastered reports whether the word was answered correctly in this session.
func (s *SessionState) Mastered(wordID int64) bool {
	_, ok := s.mastered[wordID]
	return ok
}

// Remaining returns the number of questions left in the current batch,
// the current one included.
func (s *SessionState) Remaining() int {
	if s.Complete() {
		return 0
	}
	return len(s.Questions) - s.Index
}

// Score returns the running score.
func (s *SessionState) Score() entities.QuizScore {
	return entities.QuizScore{
		CorrectCount:  s.CorrectCount,
		TotalAnswered: s.TotalAnswered,
		Rounds:        s.Round,
	}
}

// enqueueRetry adds w to the retry queue once.
func (s *SessionState) enqueueRetry(w entities.WordItem) {
	if _, ok := s.inRetry[w.ID]; ok {
		return
	}
	s.inRetry[w.ID] = struct{}{}
	s.retry = append(s.retry, w)
}
