package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

const blockedUserTimeout = 5 * time.Second

// SendReminder sends a due-review reminder and replaces the previous one.
// Reminders go to private chats, where the chat id is the user id.
func (h *Handler) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	msg := newMessage(chatID, buildReminderNotification(payload))
	msg.ReplyMarkup = buildReminderKeyboard()

	id, err := h.sendMessage(msg)
	if err != nil {
		if isBlocked(err) {
			h.deactivate(chatID)
		}
		return err
	}

	prev, hadPrev := h.reminderStorage.Swap(chatID, storage.ReminderMessage{
		ChatID:    chatID,
		MessageID: id,
		SentAt:    time.Now(),
	})
	if hadPrev {
		h.deleteMessage(prev.ChatID, prev.MessageID)
	}

	return nil
}

// deactivate stops reminders for a user who blocked the bot.
func (h *Handler) deactivate(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), blockedUserTimeout)
	defer cancel()

	if err := h.userService.Deactivate(ctx, userID); err != nil {
		h.logger.Error("failed to deactivate user", zap.Int64("user_id", userID), zap.Error(err))
	}
	if err := h.reminderService.SetEnabled(ctx, userID, false); err != nil {
		h.logger.Error("failed to disable reminders", zap.Int64("user_id", userID), zap.Error(err))
	}

	h.logger.Info("user blocked the bot, reminders disabled", zap.Int64("user_id", userID))
}

func (h *Handler) handleReminderCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch cd.param(0) {
	case reminderStart:
		h.reminderStorage.Take(userID)
		h.removeKeyboard(chatID, cb.Message.MessageID)
		return "", h.startFromLastScope(ctx, chatID, userID)

	case reminderDisable:
		if err := h.reminderService.SetEnabled(ctx, userID, false); err != nil {
			return "", err
		}
		h.removeKeyboard(chatID, cb.Message.MessageID)
		return msgRemindersOff, nil
	}

	return "", nil
}
