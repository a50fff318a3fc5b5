package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz     = "quiz"
	actionSettings = "settings"
	actionProgress = "progress"
	actionReminder = "reminder"
	actionReset    = "reset"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizAnswer = "answer"
	quizAck    = "ack"
)

// Settings sub-actions.
const (
	settingsMenu      = "menu"
	settingsTypes     = "types"
	settingsMode      = "mode"
	settingsRating    = "rating"
	settingsBatchSize = "batch"
	settingsReminders = "reminders"
)

// Reminder sub-actions.
const (
	reminderStart   = "start"
	reminderDisable = "disable"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildQuizAnswerCallback builds callback data for a multiple-choice option.
// Round and question index let stale buttons be told apart from the current question.
func buildQuizAnswerCallback(round, index, option int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizAnswer,
			strconv.Itoa(round),
			strconv.Itoa(index),
			strconv.Itoa(option),
		},
	}.encode()
}

// parseQuizAnswerCallback is the inverse of buildQuizAnswerCallback.
func parseQuizAnswerCallback(cd callbackData) (round, index, option int, ok bool) {
	if cd.Action != actionQuiz || cd.param(0) != quizAnswer || len(cd.Params) != 4 {
		return 0, 0, 0, false
	}

	var err1, err2, err3 error
	round, err1 = strconv.Atoi(cd.Params[1])
	index, err2 = strconv.Atoi(cd.Params[2])
	option, err3 = strconv.Atoi(cd.Params[3])
	if err1 != nil || err2 != nil || err3 != nil || index < 0 || option < 0 {
		return 0, 0, 0, false
	}

	return round, index, option, true
}

func buildQuizAckCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizAck}}.encode()
}

// buildQuizStartCallback builds callback data for starting a quiz session.
func buildQuizStartCallback() string {
	return callbackData{Action: actionQuiz, Params: []string{quizStart}}.encode()
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionSettings,
		Params: params,
	}.encode()
}

// buildProgressCallback builds callback data for opening the progress view.
func buildProgressCallback() string {
	return actionProgress
}

func buildReminderStartCallback() string {
	return callbackData{Action: actionReminder, Params: []string{reminderStart}}.encode()
}

func buildReminderDisableCallback() string {
	return callbackData{Action: actionReminder, Params: []string{reminderDisable}}.encode()
}

func buildResetConfirmCallback(scope string) string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm, scope}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
