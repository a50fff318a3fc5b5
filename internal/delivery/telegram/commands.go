package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

// allScopes is the scope argument that selects every word.
const allScopes = "all"

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		scopes, err := h.scopes.Scopes(ctx)
		if err != nil {
			h.logger.Warn("failed to list scopes", zap.Error(err))
		}
		return h.send(newMessage(chatID, buildWelcomeMessage(scopes)))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, helpText))
	}
}

// handleStudy starts a session in the given scope, or in the last studied
// scope when none is given. A non-empty mode overrides the user's setting.
func (h *Handler) handleStudy(userID int64, args string, mode entities.QuizMode) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		scope, err := h.resolveScope(ctx, userID, args)
		if err != nil {
			return err
		}
		return h.startSession(ctx, chatID, userID, scope, mode)
	}
}

// resolveScope turns a command argument into a scope and remembers it.
func (h *Handler) resolveScope(ctx context.Context, userID int64, args string) (string, error) {
	scope := strings.TrimSpace(args)
	if scope == "" {
		return h.userService.LastScope(ctx, userID)
	}
	if strings.EqualFold(scope, allScopes) {
		scope = ""
	}

	if err := h.userService.RememberScope(ctx, userID, scope); err != nil {
		h.logger.Warn("failed to remember scope",
			zap.Int64("user_id", userID),
			zap.String("scope", scope),
			zap.Error(err),
		)
	}
	return scope, nil
}

func (h *Handler) handleStop(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		var (
			sessionID string
			answered  int
			score     entities.QuizScore
		)
		err := h.quizStorage.Take(userID, func(st *service.SessionState) error {
			if msgID, ok := h.quizStorage.GetMessageID(userID); ok {
				h.deleteMessage(chatID, msgID)
			}
			sessionID = st.ID.String()
			answered = st.TotalAnswered
			score = h.engine.Score(st)
			return nil
		})
		if errors.Is(err, storage.ErrNoSession) {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}
		if err != nil {
			return err
		}

		h.logger.Info("quiz session stopped",
			zap.Int64("user_id", userID),
			zap.String("session_id", sessionID),
		)

		if answered == 0 {
			return h.send(newPlainMessage(chatID, msgStopped))
		}

		msg := newMessage(chatID, formatQuizResult(score))
		msg.ReplyMarkup = buildQuizResultKeyboard()
		return h.send(msg)
	}
}

// handleProgress displays user progress.
func (h *Handler) handleProgress(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering progress", zap.Int64("user_id", userID))

		// Delete the /progress command message
		h.deleteMessage(chatID, messageID)

		text, keyboard, err := h.RenderProgress(ctx, userID, true)
		if err != nil {
			h.logger.Error("failed to render progress",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgProgressUnavailable))
		}

		msg := newMessage(chatID, text)
		if keyboard != nil {
			msg.ReplyMarkup = *keyboard
		}

		return h.send(msg)
	}
}

// handleSettings displays user settings.
func (h *Handler) handleSettings(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering settings", zap.Int64("user_id", userID))

		// Delete the /settings command message
		h.deleteMessage(chatID, messageID)

		text, keyboard, err := h.RenderSettings(ctx, userID)
		if err != nil {
			h.logger.Error("failed to render settings",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgSettingsUnavailable))
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = keyboard
		return h.send(msg)
	}
}

// handleReset asks for confirmation before deleting progress.
func (h *Handler) handleReset(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		scope := strings.TrimSpace(args)
		if strings.EqualFold(scope, allScopes) {
			scope = ""
		}

		text := fmt.Sprintf("%s\n\n%s",
			bold("🗑 Reset progress"),
			md(fmt.Sprintf("This forgets everything you learned in %s. It cannot be undone. Continue?", formatScope(scope))),
		)
		if scope == "" {
			text += "\n" + md("Your settings are restored to defaults as well.")
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildResetKeyboard(scope)
		return h.send(msg)
	}
}

func (h *Handler) handleReminders(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		var enabled bool
		switch strings.ToLower(strings.TrimSpace(args)) {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return h.send(newPlainMessage(chatID, msgUseReminders))
		}

		if err := h.reminderService.SetEnabled(ctx, userID, enabled); err != nil {
			return err
		}

		return h.send(newPlainMessage(chatID, remindersText(enabled)))
	}
}

func (h *Handler) handleToken(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if h.tokens == nil {
			return h.send(newPlainMessage(chatID, msgAPIDisabled))
		}

		token, err := h.tokens.Issue(userID)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, buildTokenMessage(token)))
	}
}

func remindersText(enabled bool) string {
	if enabled {
		return msgRemindersOn
	}
	return msgRemindersOff
}

// handleText treats free text as the answer to a writing question.
func (h *Handler) handleText(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.answerWriting(ctx, chatID, userID, text)
	}
}

// removeKeyboard strips the inline keyboard from a message.
func (h *Handler) removeKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to remove keyboard", zap.Error(err))
	}
}
