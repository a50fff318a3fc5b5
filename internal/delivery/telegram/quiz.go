package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

// errStaleQuestion is returned when an answer targets a question that is no longer current.
var errStaleQuestion = errors.New("stale question")

// Self-grades used in four-level rating mode: recognizing the answer counts
// as good, producing it counts as easy.
const (
	qualityRecognized = 4
	qualityProduced   = 5
)

// startSession replaces any running session of the user with a new one.
func (h *Handler) startSession(ctx context.Context, chatID, userID int64, scope string, mode entities.QuizMode) error {
	if msgID, ok := h.quizStorage.GetMessageID(userID); ok {
		h.removeKeyboard(chatID, msgID)
	}

	st, err := h.practiceService.StartSession(ctx, userID, scope, mode)
	switch {
	case errors.Is(err, service.ErrNoCandidates):
		return h.send(newPlainMessage(chatID, msgNothingToStudy))
	case errors.Is(err, service.ErrPoolTooSmall):
		return h.send(newPlainMessage(chatID, msgPoolTooSmall))
	case err != nil:
		h.logger.Error("failed to start quiz session",
			zap.Int64("user_id", userID),
			zap.String("scope", scope),
			zap.Error(err),
		)
		return h.send(newPlainMessage(chatID, msgQuizUnavailable))
	}

	h.quizStorage.Store(userID, st)

	return h.quizStorage.Do(userID, func(st *service.SessionState) error {
		if err := h.send(newMessage(chatID, buildQuizStartMessage(st))); err != nil {
			return err
		}

		q, err := h.engine.Current(st)
		if err != nil {
			return err
		}
		return h.sendQuestion(chatID, userID, st, q)
	})
}

// sendQuestion shows q; multiple-choice options come as buttons.
func (h *Handler) sendQuestion(chatID, userID int64, st *service.SessionState, q *entities.QuizQuestion) error {
	msg := newMessage(chatID, formatQuizQuestion(q, st.Round, st.Index, len(st.Questions)))
	if q.Type == entities.QuestionMultipleChoice {
		msg.ReplyMarkup = buildQuizAnswerKeyboard(q, st.Round, st.Index)
	}

	id, err := h.sendMessage(msg)
	if err != nil {
		return err
	}

	h.quizStorage.SetMessageID(userID, id)
	return nil
}

// handleQuizAnswerCallback handles a pressed multiple-choice option.
func (h *Handler) handleQuizAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) (string, error) {
	round, index, option, ok := parseQuizAnswerCallback(cd)
	if !ok {
		h.logger.Warn("invalid quiz callback", zap.String("data", cd.Raw))
		return "", nil
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	err := h.quizStorage.Do(userID, func(st *service.SessionState) error {
		if st.Round != round || st.Index != index || st.Step != service.StepAwaitingAnswer {
			return errStaleQuestion
		}

		q, err := h.engine.Current(st)
		if err != nil {
			return err
		}

		res, err := h.engine.Answer(ctx, st, entities.AnswerInput{
			SelectedIndex: option,
			Quality:       qualityFor(st, q),
		})
		if err != nil {
			return err
		}

		return h.afterAnswer(ctx, chatID, userID, st, res, cb.Message.MessageID)
	})

	return expiredNotice(err)
}

// answerWriting handles typed text as the answer to the current writing question.
func (h *Handler) answerWriting(ctx context.Context, chatID, userID int64, text string) error {
	err := h.quizStorage.Do(userID, func(st *service.SessionState) error {
		if st.Complete() || st.Step != service.StepAwaitingAnswer {
			return errStaleQuestion
		}

		q, err := h.engine.Current(st)
		if err != nil {
			return err
		}
		if q.Type != entities.QuestionWriting {
			return errStaleQuestion
		}

		res, err := h.engine.Answer(ctx, st, entities.AnswerInput{
			Text:    text,
			Quality: qualityFor(st, q),
		})
		if err != nil {
			return err
		}

		return h.afterAnswer(ctx, chatID, userID, st, res, 0)
	})

	switch {
	case errors.Is(err, storage.ErrNoSession):
		return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
	case errors.Is(err, errStaleQuestion):
		// Text sent while a button is expected.
		return nil
	default:
		return err
	}
}

// handleQuizAckCallback confirms a wrong answer in learn mode and moves on.
func (h *Handler) handleQuizAckCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) (string, error) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	err := h.quizStorage.Do(userID, func(st *service.SessionState) error {
		if err := h.engine.Acknowledge(st); err != nil {
			if errors.Is(err, service.ErrInvalidTransition) || errors.Is(err, service.ErrSessionComplete) {
				return errStaleQuestion
			}
			return err
		}

		h.removeKeyboard(chatID, cb.Message.MessageID)
		return h.advance(ctx, chatID, userID, st)
	})

	return expiredNotice(err)
}

// afterAnswer shows feedback and either waits for an acknowledgement or advances.
// editID is the question message to replace with the feedback, 0 to send a new one.
func (h *Handler) afterAnswer(
	ctx context.Context,
	chatID, userID int64,
	st *service.SessionState,
	res *service.AnswerResult,
	editID int,
) error {
	text := formatAnswerFeedback(res)
	waiting := res.Step == service.StepPendingRetryAck

	var err error
	if editID != 0 {
		edit := newEdit(chatID, editID, text)
		if waiting {
			kb := buildAcknowledgeKeyboard()
			edit.ReplyMarkup = &kb
		}
		err = h.send(edit)
	} else {
		msg := newMessage(chatID, text)
		if waiting {
			msg.ReplyMarkup = buildAcknowledgeKeyboard()
		}
		var id int
		id, err = h.sendMessage(msg)
		if waiting && err == nil {
			h.quizStorage.SetMessageID(userID, id)
		}
	}
	if err != nil {
		// Without feedback there is no button to confirm with, so keep the session moving.
		h.logger.Warn("failed to show answer feedback",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		if waiting {
			if err := h.engine.Acknowledge(st); err != nil {
				return err
			}
			waiting = false
		}
	}

	if res.Warn {
		if err := h.send(newPlainMessage(chatID, msgSyncWarning)); err != nil {
			h.logger.Debug("failed to send sync warning",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	if waiting {
		return nil
	}
	return h.advance(ctx, chatID, userID, st)
}

// advance shows the next question or the final score.
func (h *Handler) advance(ctx context.Context, chatID, userID int64, st *service.SessionState) error {
	q, err := h.engine.Next(st)
	if err != nil {
		return err
	}
	if q != nil {
		return h.sendQuestion(chatID, userID, st, q)
	}

	h.quizStorage.Delete(userID)

	score := h.engine.Score(st)
	h.logger.Info("quiz session completed",
		zap.Int64("user_id", userID),
		zap.Stringer("session_id", st.ID),
		zap.Int("correct", score.CorrectCount),
		zap.Int("answered", score.TotalAnswered),
		zap.Int("rounds", score.Rounds),
	)

	msg := newMessage(chatID, formatQuizResult(score))
	msg.ReplyMarkup = buildQuizResultKeyboard()
	return h.send(msg)
}

// qualityFor returns the self-grade sent with an answer in four-level mode.
func qualityFor(st *service.SessionState, q *entities.QuizQuestion) *int {
	if st.Config.RatingMode != entities.RatingFourLevel {
		return nil
	}

	quality := qualityRecognized
	if q.Type == entities.QuestionWriting {
		quality = qualityProduced
	}
	return &quality
}

// expiredNotice maps session lookup failures to a callback notice.
func expiredNotice(err error) (string, error) {
	if errors.Is(err, storage.ErrNoSession) || errors.Is(err, errStaleQuestion) {
		return msgQuestionExpired, nil
	}
	return "", err
}
