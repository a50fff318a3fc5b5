package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/service"
)

// errOtherScope keeps a running session when a reset targets another scope.
var errOtherScope = errors.New("session belongs to another scope")

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	cd := decodeCallback(cb.Data)

	var (
		notice string
		err    error
	)

	switch cd.Action {
	case actionQuiz:
		switch cd.param(0) {
		case quizAnswer:
			notice, err = h.handleQuizAnswerCallback(ctx, cb, cd)
		case quizAck:
			notice, err = h.handleQuizAckCallback(ctx, cb)
		case quizStart:
			err = h.startFromLastScope(ctx, cb.Message.Chat.ID, cb.From.ID)
		}
	case actionSettings:
		notice, err = h.handleSettingsCallback(ctx, cb, cd)
	case actionProgress:
		err = h.handleProgressCallback(ctx, cb)
	case actionReminder:
		notice, err = h.handleReminderCallback(ctx, cb, cd)
	case actionReset:
		err = h.handleResetCallback(ctx, cb, cd)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	if err != nil {
		h.logger.Error("callback failed",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		notice = msgInternalError
	}

	h.answerCallback(cb.ID, notice)
}

// answerCallback removes the loading state of the pressed button,
// showing text as a notice when it is not empty.
func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) startFromLastScope(ctx context.Context, chatID, userID int64) error {
	scope, err := h.userService.LastScope(ctx, userID)
	if err != nil {
		return err
	}
	return h.startSession(ctx, chatID, userID, scope, "")
}

func (h *Handler) handleProgressCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	text, kb, err := h.RenderProgress(ctx, cb.From.ID, true)
	if err != nil {
		return err
	}

	edit := newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ReplyMarkup = kb
	// Refreshing unchanged progress makes Telegram reject the edit; nothing to report.
	_ = h.send(edit)
	return nil
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) error {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	if cd.param(0) != resetConfirm {
		return h.send(newEdit(chatID, cb.Message.MessageID, md(msgResetCancelled)))
	}

	// Scopes may contain the separator.
	scope := strings.Join(cd.Params[1:], ":")

	_ = h.quizStorage.Take(userID, func(st *service.SessionState) error {
		if scope != "" && st.Scope != scope {
			return errOtherScope
		}
		if msgID, ok := h.quizStorage.GetMessageID(userID); ok {
			h.removeKeyboard(chatID, msgID)
		}
		return nil
	})

	n, err := h.resetService.ResetUser(ctx, userID, scope)
	if err != nil {
		return err
	}

	h.logger.Info("progress reset",
		zap.Int64("user_id", userID),
		zap.String("scope", scope),
		zap.Int64("records", n),
	)

	text := md(fmt.Sprintf("✅ Progress in %s was reset (%d words).", formatScope(scope), n))
	return h.send(newEdit(chatID, cb.Message.MessageID, text))
}
