package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
)

const msgInvalidSetting = "This value is not supported."

// handleSettingsCallback opens a settings sub-menu, or stores the chosen value
// and returns to the settings screen.
func (h *Handler) handleSettingsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	userID := cb.From.ID

	sub, value := cd.param(0), cd.param(1)

	if sub == settingsReminders {
		enabled := value == "on"
		if err := h.reminderService.SetEnabled(ctx, userID, enabled); err != nil {
			return "", err
		}
		return remindersText(enabled), nil
	}

	if value == "" && sub != settingsMenu {
		kb, ok := settingsSubKeyboard(sub)
		if !ok {
			return "", nil
		}
		return "", h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, kb))
	}

	var err error
	switch sub {
	case settingsTypes:
		err = h.settingsService.UpdateQuestionTypes(ctx, userID, entities.QuestionTypes(value))
	case settingsMode:
		err = h.settingsService.UpdateMode(ctx, userID, entities.QuizMode(value))
	case settingsRating:
		err = h.settingsService.UpdateRatingMode(ctx, userID, entities.RatingMode(value))
	case settingsBatchSize:
		size, convErr := strconv.Atoi(value)
		if convErr != nil {
			return msgInvalidSetting, nil
		}
		err = h.settingsService.UpdateBatchSize(ctx, userID, size)
	}
	if errors.Is(err, service.ErrInvalidSetting) {
		return msgInvalidSetting, nil
	}
	if err != nil {
		return "", err
	}

	text, kb, err := h.RenderSettings(ctx, userID)
	if err != nil {
		return "", err
	}

	edit := newEdit(chatID, msgID, text)
	edit.ReplyMarkup = &kb
	return "", h.send(edit)
}

func settingsSubKeyboard(sub string) (tgbotapi.InlineKeyboardMarkup, bool) {
	switch sub {
	case settingsTypes:
		return buildQuestionTypesKeyboard(), true
	case settingsMode:
		return buildModeKeyboard(), true
	case settingsRating:
		return buildRatingKeyboard(), true
	case settingsBatchSize:
		return buildBatchSizeKeyboard(), true
	default:
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
}
