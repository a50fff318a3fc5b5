package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/lexis-bot/internal/auth"
	"github.com/aliskhannn/lexis-bot/internal/config"
	"github.com/aliskhannn/lexis-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/lexis-bot/internal/delivery/telegram"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres"
	"github.com/aliskhannn/lexis-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/lexis-bot/internal/logger"
	"github.com/aliskhannn/lexis-bot/internal/service"
	"github.com/aliskhannn/lexis-bot/internal/srs"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "study", Description: "Practice a scope (use: /study travel)"},
		{Command: "learn", Description: "Practice with a pause after mistakes"},
		{Command: "stop", Description: "End the running session"},
		{Command: "progress", Description: "Show progress"},
		{Command: "settings", Description: "Settings"},
		{Command: "reminders", Description: "Turn review reminders on or off"},
		{Command: "reset", Description: "Forget progress"},
		{Command: "help", Description: "Help"},
	}
	if cfg.HTTP.Enabled() {
		commands = append(commands, tgbotapi.BotCommand{Command: "token", Description: "Get a practice API token"})
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	// Initialize repositories.
	userRepo := repository.NewUserRepository(pool)
	wordRepo := repository.NewWordRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	reminderRepo := repository.NewRemindersRepository(pool)

	// Schedulers.
	model, err := srs.NewModelScheduler(srs.ModelConfig{
		RequestRetention: cfg.SRS.RequestRetention,
		MaximumInterval:  cfg.SRS.MaximumInterval,
		MasteryThreshold: cfg.SRS.MasteryThreshold,
	})
	if err != nil {
		return err
	}
	legacy := srs.NewLegacyScheduler()

	// Use cases.
	progressService := service.NewProgressService(progressRepo, model, legacy, lg.Named("progress"))
	sessionService := service.NewSessionService(progressRepo, wordRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	userService := service.NewUserService(userRepo)
	resetService := service.NewResetService(postgres.NewTransactor(pool))
	engine := service.NewQuizEngine(
		progressService,
		service.NewAnswerValidator(),
		service.NewSyncNotifier(cfg.Quiz.WarnInterval),
		lg.Named("quiz"),
	)
	practiceService := service.NewPracticeService(
		sessionService,
		wordRepo,
		settingsService,
		engine,
		cfg.Quiz.QuizConfig(),
		cfg.Quiz.SessionLimit,
		lg.Named("practice"),
	)
	reminderService := service.NewReminderService(
		reminderRepo,
		progressRepo,
		service.ReminderConfig{Spec: cfg.Reminders.Spec, MinGap: cfg.Reminders.MinGap},
		lg.Named("reminders"),
	)

	quizStorage := storage.NewQuizStorage()

	services := telegram.Services{
		Users:    userService,
		Practice: practiceService,
		Engine:   engine,
		Progress: progressService,
		Settings: settingsService,
		Reminder: reminderService,
		Reset:    resetService,
		Scopes:   wordRepo,
	}

	var tokens *auth.Tokens
	if cfg.HTTP.Enabled() {
		tokens = auth.NewTokens(cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL)
		services.Tokens = tokens
	}

	handler := telegram.NewHandler(bot, lg.Named("telegram"), services, quizStorage, storage.NewReminderStorage())
	reminderService.SetNotifier(handler)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Run(ctx)
	})

	if cfg.Reminders.Enabled {
		g.Go(func() error {
			return reminderService.Start(ctx)
		})
	}

	if cfg.HTTP.Enabled() {
		api := httpapi.NewHandler(practiceService, engine, progressService, quizStorage, lg.Named("http"))
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpapi.NewRouter(api, tokens, cfg.HTTP.AllowedOrigins, lg.Named("http")),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			lg.Info("practice api listening", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
