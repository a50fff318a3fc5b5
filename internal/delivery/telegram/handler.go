package telegram

import (
	"context"
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

// Services groups the use cases the bot talks to.
type Services struct {
	Users    UserService
	Practice PracticeService
	Engine   QuizEngine
	Progress ProgressService
	Settings SettingsService
	Reminder ReminderService
	Reset    ResetService
	Scopes   ScopeLister
	Tokens   TokenIssuer // nil when the practice API is disabled
}

type Handler struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger

	userService     UserService
	practiceService PracticeService
	engine          QuizEngine
	progressService ProgressService
	settingsService SettingsService
	reminderService ReminderService
	resetService    ResetService
	scopes          ScopeLister
	tokens          TokenIssuer

	quizStorage     QuizStorage
	reminderStorage ReminderStorage
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	services Services,
	quizStorage QuizStorage,
	reminderStorage ReminderStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		userService:     services.Users,
		practiceService: services.Practice,
		engine:          services.Engine,
		progressService: services.Progress,
		settingsService: services.Settings,
		reminderService: services.Reminder,
		resetService:    services.Reset,
		scopes:          services.Scopes,
		tokens:          services.Tokens,
		quizStorage:     quizStorage,
		reminderStorage: reminderStorage,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	messageID := update.Message.MessageID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if _, err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleText(userID, update.Message.Text))(ctx, chatID)
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = h.handleHelp()
	case "study":
		fn = h.handleStudy(userID, args, "")
	case "learn":
		fn = h.handleStudy(userID, args, entities.ModeLearn)
	case "stop":
		fn = h.handleStop(userID)
	case "progress":
		fn = h.handleProgress(userID, messageID)
	case "settings":
		fn = h.handleSettings(userID, messageID)
	case "reset":
		fn = h.handleReset(args)
	case "reminders":
		fn = h.handleReminders(userID, args)
	case "token":
		fn = h.handleToken(userID)
	default:
		fn = func(ctx context.Context, chatID int64) error {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

// sendMessage sends c and returns the id of the sent message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (int, error) {
	msg, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return 0, err
	}
	return msg.MessageID, nil
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.logger.Debug("failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

// isBlocked reports whether err means the user blocked the bot.
func isBlocked(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return tgErr.Code == http.StatusForbidden
	}
	return false
}
