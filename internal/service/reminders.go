package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

const (
	// DefaultReminderSpec runs the reminder job at the top of every hour.
	DefaultReminderSpec = "0 * * * *"
	// DefaultReminderGap is the minimum time between two reminders to one user.
	DefaultReminderGap = 12 * time.Hour
)

var errNotifierNotSet = errors.New("notifier not initialized")

// ReminderConfig configures the reminder job.
type ReminderConfig struct {
	Spec   string        // cron spec in UTC
	MinGap time.Duration // minimum time between reminders to one user
}

// ReminderService tells users with due reviews that words are waiting.
type ReminderService struct {
	reminderRepo ReminderRepository
	progressRepo ProgressRepository
	notifier     ReminderNotifier
	cfg          ReminderConfig
	logger       *zap.Logger

	now func() time.Time
}

// NewReminderService creates a new reminder service.
func NewReminderService(
	reminderRepo ReminderRepository,
	progressRepo ProgressRepository,
	cfg ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	if cfg.Spec == "" {
		cfg.Spec = DefaultReminderSpec
	}
	if cfg.MinGap <= 0 {
		cfg.MinGap = DefaultReminderGap
	}

	return &ReminderService{
		reminderRepo: reminderRepo,
		progressRepo: progressRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the cron scheduler until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.Spec, func() {
		s.logger.Info("cron triggered: processing reminders")
		if err := s.SendDueReminders(ctx); err != nil {
			s.logger.Error("failed to send reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder scheduler started", zap.String("spec", s.cfg.Spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
	return nil
}

// SendDueReminders sends one reminder to every user with due reviews whose
// last reminder is older than the configured gap.
func (s *ReminderService) SendDueReminders(ctx context.Context) error {
	if s.notifier == nil {
		return errNotifierNotSet
	}

	now := s.now().UTC()
	reminders, err := s.reminderRepo.GetDueReminders(ctx, now)
	if err != nil {
		return fmt.Errorf("get due reminders: %w", err)
	}

	sent := s.processBatch(ctx, reminders, now)
	s.logger.Info("reminders processed",
		zap.Int("candidates", len(reminders)),
		zap.Int("total_sent", sent),
	)

	return nil
}

// processBatch sends reminders concurrently.
func (s *ReminderService) processBatch(ctx context.Context, reminders []*entities.DueReminder, now time.Time) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, rem := range reminders {
		if !rem.CanSendNow(now, s.cfg.MinGap) {
			continue
		}

		wg.Add(1)
		sem <- struct{}{} // acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			if err := s.processReminder(ctx, rem, now); err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", rem.UserID),
					zap.Error(err))
				return
			}

			mu.Lock()
			sent++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return sent
}

func (s *ReminderService) processReminder(ctx context.Context, rem *entities.DueReminder, now time.Time) error {
	stats, err := s.progressRepo.Stats(ctx, rem.UserID, "", now)
	if err != nil {
		return fmt.Errorf("build reminder stats: %w", err)
	}

	payload := entities.ReminderPayload{
		DueCount: rem.DueCount,
		Stats:    *stats,
	}
	if err := s.notifier.SendReminder(rem.ChatID, payload); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if err := s.reminderRepo.MarkAsSent(ctx, rem.UserID, now); err != nil {
		return fmt.Errorf("mark as sent: %w", err)
	}

	s.logger.Info("reminder sent",
		zap.Int64("user_id", rem.UserID),
		zap.Int("due", rem.DueCount),
	)

	return nil
}

// SetEnabled turns a user's reminders on or off.
func (s *ReminderService) SetEnabled(ctx context.Context, userID int64, enabled bool) error {
	return s.reminderRepo.SetEnabled(ctx, userID, enabled)
}
