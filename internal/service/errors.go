package service

import "errors"

var (
	// ErrSyncFailure means an answer could not be persisted by either scheduler.
	ErrSyncFailure = errors.New("progress sync failed")
	// ErrNoCandidates means there is nothing to study.
	ErrNoCandidates = errors.New("no words to study")
	// ErrPoolTooSmall means the word pool cannot supply three distinct distractors.
	ErrPoolTooSmall = errors.New("word pool too small for multiple choice")
	// ErrNoQuestionTypes means the quiz config enables neither question type.
	ErrNoQuestionTypes = errors.New("no question types enabled")
	// ErrInvalidTransition means the quiz call does not fit the current step.
	ErrInvalidTransition = errors.New("invalid quiz transition")
	// ErrSessionComplete means the quiz session has already finished.
	ErrSessionComplete = errors.New("quiz session complete")
)
