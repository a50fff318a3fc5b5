package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RenderProgress renders progress message with optional keyboard.
// The scope is the one the user studied last.
func (h *Handler) RenderProgress(ctx context.Context, userID int64, withKeyboard bool) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	scope, err := h.userService.LastScope(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	summary, err := h.progressService.GetProgressSummary(ctx, userID, scope)
	if err != nil {
		return "", nil, err
	}

	var keyboard *tgbotapi.InlineKeyboardMarkup
	if withKeyboard {
		kb := buildProgressKeyboard()
		keyboard = &kb
	}

	return formatProgress(summary), keyboard, nil
}

// RenderSettings renders settings message with keyboard.
func (h *Handler) RenderSettings(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	return formatSettings(settings), buildSettingsKeyboard(), nil
}
