package entities

import (
	"fmt"
	"time"
)

// Status is the coarse learning status of a word for a user.
type Status string

const (
	StatusNew      Status = "new"      // never answered, or failed on first sight
	StatusLearning Status = "learning" // in short-term learning or relearning
	StatusReview   Status = "review"   // in the long-term review cycle
	StatusMastered Status = "mastered" // retention strength above the mastery threshold
)

// MemoryState is the memory-model state of a word.
type MemoryState int

const (
	StateNew MemoryState = iota
	StateLearning
	StateReview
	StateRelearning
)

var memoryStateNames = [...]string{
	StateNew:        "new",
	StateLearning:   "learning",
	StateReview:     "review",
	StateRelearning: "relearning",
}

// IsValid reports whether s is one of the known memory states.
func (s MemoryState) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

func (s MemoryState) String() string {
	if s.IsValid() {
		return memoryStateNames[s]
	}
	return fmt.Sprintf("MemoryState(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s MemoryState) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid memory state: %d", int(s))
	}
	return []byte(memoryStateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *MemoryState) UnmarshalText(text []byte) error {
	for i, name := range memoryStateNames {
		if name == string(text) {
			*s = MemoryState(i)
			return nil
		}
	}
	return fmt.Errorf("invalid memory state: %q", text)
}

// RecordKind tells which scheduler produced the current contents of a record.
type RecordKind string

const (
	KindModel  RecordKind = "model"  // memory-model fields are authoritative
	KindLegacy RecordKind = "legacy" // only interval, streak and mistake count are authoritative
)

// DefaultEaseFactor is the ease factor of a record that was never reviewed.
const DefaultEaseFactor = 2.5

// ProgressRecord stores the scheduling state of one word for one user.
// It is always written as a whole.
type ProgressRecord struct {
	UserID int64
	WordID int64

	Kind   RecordKind
	Status Status

	// Memory-model fields.
	State         MemoryState
	Due           time.Time  // zero when the word was never scheduled
	Stability     float64    // days until recall probability decays to the reference level
	Difficulty    float64    // 1..10
	ElapsedDays   int        // days between the last two reviews
	ScheduledDays int        // days between the last review and due
	LearningSteps int        // consecutive short-term steps taken in learning or relearning
	Reps          int        // total reviews
	Lapses        int        // times the word was forgotten after reaching review
	LastReview    *time.Time // nil before the first review

	// Legacy fields, kept for the fallback scheduler.
	Interval     float64 // days
	EaseFactor   float64
	Streak       int // consecutive correct answers
	MistakeCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProgressRecord returns the synthesized state of a word that was never answered.
func NewProgressRecord(userID, wordID int64) *ProgressRecord {
	return &ProgressRecord{
		UserID:     userID,
		WordID:     wordID,
		Kind:       KindModel,
		Status:     StatusNew,
		State:      StateNew,
		EaseFactor: DefaultEaseFactor,
	}
}

// Clone returns a deep copy of the record.
func (p *ProgressRecord) Clone() *ProgressRecord {
	if p == nil {
		return nil
	}
	out := *p
	if p.LastReview != nil {
		lr := *p.LastReview
		out.LastReview = &lr
	}
	return &out
}

// IsDue reports whether the word is eligible for review at now.
func (p *ProgressRecord) IsDue(now time.Time) bool {
	return p.Status != StatusNew && !p.Due.After(now)
}

// StatusFor derives the legacy status from a memory state and its stability.
func StatusFor(state MemoryState, stability, masteryThreshold float64) Status {
	switch state {
	case StateLearning, StateRelearning:
		return StatusLearning
	case StateReview:
		if stability > masteryThreshold {
			return StatusMastered
		}
		return StatusReview
	default:
		return StatusNew
	}
}
