package storage

import (
	"errors"
	"sync"

	"github.com/aliskhannn/lexis-bot/internal/service"
)

// ErrNoSession is returned when the user has no running quiz session.
var ErrNoSession = errors.New("no active quiz session")

type quizEntry struct {
	mu        sync.Mutex
	state     *service.SessionState
	messageID int // last question message in the chat, 0 if none; guarded by QuizStorage.mu
}

// QuizStorage keeps running quiz sessions in memory, one per user.
// Sessions are never persisted; a restart ends them.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*quizEntry
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[int64]*quizEntry),
	}
}

// Store saves st as the running session of userID, replacing any previous one.
func (s *QuizStorage) Store(userID int64, st *service.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &quizEntry{state: st}
}

// Do runs fn with exclusive access to the running session of userID.
func (s *QuizStorage) Do(userID int64, fn func(st *service.SessionState) error) error {
	s.mu.RLock()
	e, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.state)
}

// Take runs fn with exclusive access to the running session of userID and,
// if fn succeeds, ends the session before the lock is released.
// A session stored again in the meantime is left alone.
func (s *QuizStorage) Take(userID int64, fn func(st *service.SessionState) error) error {
	s.mu.RLock()
	e, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.state); err != nil {
		return err
	}

	s.mu.Lock()
	if s.sessions[userID] == e {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()
	return nil
}

// SetMessageID remembers the chat message showing the current question.
// It may be called from within Do.
func (s *QuizStorage) SetMessageID(userID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[userID]; ok {
		e.messageID = messageID
	}
}

// GetMessageID returns the message showing the current question.
func (s *QuizStorage) GetMessageID(userID int64) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[userID]
	if !ok {
		return 0, false
	}
	return e.messageID, e.messageID != 0
}

// Delete ends the running session of userID.
func (s *QuizStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
