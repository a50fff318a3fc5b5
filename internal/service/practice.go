package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

type SessionBuilder interface {
	BuildSession(ctx context.Context, userID int64, scope string, limit int) ([]entities.SessionCandidate, error)
}

type SettingsProvider interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserSettings, error)
}

// PracticeService starts quiz sessions from the user's due, learning and new words.
type PracticeService struct {
	sessions SessionBuilder
	words    WordRepository
	settings SettingsProvider
	engine   *QuizEngine
	base     entities.QuizConfig
	limit    int
	logger   *zap.Logger

	seed func() int64
}

// NewPracticeService creates a PracticeService. base is the quiz config user
// settings are applied to; limit caps the words in a session.
func NewPracticeService(
	sessions SessionBuilder,
	words WordRepository,
	settings SettingsProvider,
	engine *QuizEngine,
	base entities.QuizConfig,
	limit int,
	logger *zap.Logger,
) *PracticeService {
	return &PracticeService{
		sessions: sessions,
		words:    words,
		settings: settings,
		engine:   engine,
		base:     base,
		limit:    limit,
		logger:   logger,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// StartSession assembles a session for scope and starts a quiz over it.
// A non-empty mode overrides the user's preferred mode.
func (s *PracticeService) StartSession(
	ctx context.Context,
	userID int64,
	scope string,
	mode entities.QuizMode,
) (*SessionState, error) {
	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load settings, using defaults", zap.Int64("user_id", userID), zap.Error(err))
		settings = nil
	}

	cfg := settings.Apply(s.base)
	if mode != "" {
		cfg.Mode = mode
	}
	cfg.Seed = s.seed()

	candidates, err := s.sessions.BuildSession(ctx, userID, scope, s.limit)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	pool, err := s.words.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load word pool: %w", err)
	}

	st, err := s.engine.Start(userID, scope, candidates, pool, cfg)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz session started",
		zap.Int64("user_id", userID),
		zap.Stringer("session_id", st.ID),
		zap.String("scope", scope),
		zap.Int("candidates", len(candidates)),
	)

	return st, nil
}
