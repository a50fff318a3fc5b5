// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
)

// Error and status messages.
const (
	msgInternalError       = "Something went wrong. Please try again later."
	msgUnknownCommand      = "Unknown command. Send /help to see what I can do."
	msgProgressUnavailable = "Could not load your progress. Please try again later."
	msgSettingsUnavailable = "Could not load your settings. Please try again later."
	msgQuizUnavailable     = "Could not start a session. Please try again later."
	msgNothingToStudy      = "Nothing to study right now: no reviews are due and there are no new words in this scope."
	msgPoolTooSmall        = "This scope has fewer than four different words, which is not enough for multiple choice. Enable writing questions in /settings."
	msgNoActiveQuiz        = "You have no running session. Send /study to start one."
	msgQuestionExpired     = "This question is no longer active."
	msgSyncWarning         = "⚠️ Your progress could not be saved right now. Keep going, I will try again with your next answer."
	msgUseReminders        = "Use: /reminders on or /reminders off."
	msgRemindersOn         = "🔔 Reminders are on. I will let you know when reviews are due."
	msgRemindersOff        = "🔕 Reminders are off."
	msgResetCancelled      = "Reset cancelled."
	msgStopped             = "Session stopped."
	msgAcknowledge         = "Got it"
	msgAPIDisabled         = "The practice API is not enabled on this bot."
)

const helpText = `/study [scope] — practice due, learning and new words
/learn [scope] — same, but wrong answers wait for you to confirm
/stop — end the running session
/progress — your progress in the last studied scope
/settings — question types, mode, rating and batch size
/reminders on|off — review reminders
/reset [scope] — forget your progress
/token — a token for the practice API

Use "all" as the scope to practice every word.`

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func buildWelcomeMessage(scopes []string) string {
	var sb strings.Builder

	sb.WriteString(bold("Welcome to Lexis!"))
	sb.WriteString("\n\n")
	sb.WriteString(md("I help you learn vocabulary with spaced repetition: each word comes back right before you would forget it."))
	sb.WriteString("\n\n")

	if len(scopes) > 0 {
		sb.WriteString(md("Available scopes: "))
		for i, s := range scopes {
			if i > 0 {
				sb.WriteString(md(", "))
			}
			sb.WriteString(bold(s))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString(md("Send /study to begin or /help for all commands."))
	return sb.String()
}

func formatScope(scope string) string {
	if scope == "" {
		return "all words"
	}
	return scope
}

// buildQuizStartMessage builds the session start message (MarkdownV2 safe).
func buildQuizStartMessage(st *service.SessionState) string {
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %s",
		bold("🎯 Session started"),
		md("Scope:"),
		bold(formatScope(st.Scope)),
		md("Mode:"),
		bold(formatQuizMode(st.Config.Mode)),
	)
}

// formatQuizQuestion formats a quiz question (MarkdownV2 safe).
func formatQuizQuestion(q *entities.QuizQuestion, round, index, total int) string {
	header := md(fmt.Sprintf("Round %d · Question %d of %d", round, index+1, total))

	var hint string
	switch {
	case q.Type == entities.QuestionMultipleChoice:
		hint = "Choose the translation."
	case q.Direction.Answer() == entities.LanguageTarget:
		hint = "Type the translation. Spelling and capitals count."
	default:
		hint = "Type the translation."
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", header, bold(q.Prompt), md(hint))
}

// formatAnswerFeedback formats feedback for a quiz answer (MarkdownV2 safe).
func formatAnswerFeedback(res *service.AnswerResult) string {
	q := res.Question
	if res.Correct {
		return fmt.Sprintf("%s\n\n%s %s", bold(q.Prompt), md("✅"), md(q.CorrectAnswer))
	}

	verdict := "❌ Wrong"
	if res.Close {
		verdict = "🤏 Almost"
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s %s\n\n%s",
		bold(q.Prompt),
		md(verdict),
		md("Correct answer:"),
		bold(q.CorrectAnswer),
		md("This word comes back at the end of the round."),
	)
}

// formatQuizResult formats session results (MarkdownV2 safe).
func formatQuizResult(score entities.QuizScore) string {
	var percentage float64
	if score.TotalAnswered > 0 {
		percentage = float64(score.CorrectCount) / float64(score.TotalAnswered) * 100
	}

	emoji, message := "📚", "Keep practicing!"
	switch {
	case percentage >= 90:
		emoji, message = "🌟", "Excellent!"
	case percentage >= 70:
		emoji, message = "👍", "Good result!"
	case percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	progressBar := buildProgressBar(score.CorrectCount, score.TotalAnswered, 10)

	return fmt.Sprintf(
		"%s %s\n\n%s %s\n%s\n%s\n\n%s",
		md(emoji),
		md("Session complete!"),
		md("First-try and replayed answers:"),
		bold(fmt.Sprintf("%d/%d (%.0f%%)", score.CorrectCount, score.TotalAnswered, percentage)),
		md(progressBar),
		md(fmt.Sprintf("Rounds: %d", score.Rounds)),
		md(message),
	)
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	filled = min(max(filled, 0), length)

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

func formatProgress(summary *service.ProgressSummary) string {
	s := summary.Stats

	var sb strings.Builder
	sb.WriteString(bold("📊 Your progress"))
	sb.WriteString(md(fmt.Sprintf(" · %s", formatScope(summary.Scope))))
	sb.WriteString("\n\n")
	sb.WriteString(md(buildProgressBar(s.MasteredCount, s.Total, 20)))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("🏆 Mastered: %d / %d (%.1f%%)\n", s.MasteredCount, s.Total, summary.Percentage)))
	sb.WriteString(md(fmt.Sprintf("🔁 In review: %d\n", s.ReviewCount)))
	sb.WriteString(md(fmt.Sprintf("📖 Learning: %d\n", s.LearningCount)))
	sb.WriteString(md(fmt.Sprintf("🆕 New: %d\n", s.NewCount)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("⏰ Due now: %d\n", s.DueNow)))
	sb.WriteString(md(fmt.Sprintf("🎯 Accuracy: %.1f%%", summary.Accuracy)))
	if summary.Retrievability > 0 {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("🧠 Expected recall: %.0f%%", summary.Retrievability*100)))
	}

	return sb.String()
}

func formatSettings(settings *entities.UserSettings) string {
	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s\n%s",
		bold("⚙️ Settings"),
		md(fmt.Sprintf("📝 Question types: %s", formatQuestionTypes(settings.QuestionTypes))),
		md(fmt.Sprintf("🎲 Mode: %s", formatQuizMode(settings.Mode))),
		md(fmt.Sprintf("⭐ Rating: %s", formatRatingMode(settings.RatingMode))),
		md(fmt.Sprintf("📦 Questions per round: %d", settings.BatchSize)),
	)
}

func formatQuestionTypes(t entities.QuestionTypes) string {
	switch t {
	case entities.TypesMultipleChoice:
		return "multiple choice"
	case entities.TypesWriting:
		return "writing"
	case entities.TypesMixed:
		return "mixed"
	default:
		return string(t)
	}
}

func formatQuizMode(mode entities.QuizMode) string {
	switch mode {
	case entities.ModeLearn:
		return "learn (confirm mistakes)"
	case entities.ModeQuiz:
		return "quiz"
	default:
		return string(mode)
	}
}

func formatRatingMode(mode entities.RatingMode) string {
	switch mode {
	case entities.RatingFourLevel:
		return "four levels (typed answers count as easy)"
	case entities.RatingBinary:
		return "right or wrong"
	default:
		return string(mode)
	}
}

// buildReminderNotification builds reminder notification message.
func buildReminderNotification(payload entities.ReminderPayload) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("⏰ %d words are waiting for review", payload.DueCount)))
	sb.WriteString("\n\n")
	sb.WriteString(md("Reviewing them now keeps them in long-term memory."))
	sb.WriteString("\n\n")

	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(bold("📊 Your progress:"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("🏆 Mastered: %d/%d\n", payload.Stats.MasteredCount, payload.Stats.Total)))

	if payload.Stats.LearningCount > 0 {
		sb.WriteString(md(fmt.Sprintf("📖 Learning: %d\n", payload.Stats.LearningCount)))
	}
	if payload.Stats.NewCount > 0 {
		sb.WriteString(md(fmt.Sprintf("🆕 Not started: %d", payload.Stats.NewCount)))
	}

	return sb.String()
}

func buildTokenMessage(token string) string {
	return md("Your practice API token. Send it as a Bearer token and keep it private:") +
		"\n\n`" + token + "`"
}
