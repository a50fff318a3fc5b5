package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
	"github.com/aliskhannn/lexis-bot/internal/storage"
)

// Handler serves the practice API. Sessions are shared with the chat bot,
// so a session started in one can be continued in the other.
type Handler struct {
	practice PracticeService
	engine   QuizEngine
	progress ProgressService
	sessions SessionStore
	logger   *zap.Logger

	validator *requestValidator
}

func NewHandler(
	practice PracticeService,
	engine QuizEngine,
	progress ProgressService,
	sessions SessionStore,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		practice: practice,
		engine:   engine,
		progress: progress,
		sessions: sessions,
		logger:   logger,

		validator: newRequestValidator(),
	}
}

// StartSession handles POST /api/session.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token (no user ID)")
		return
	}

	var req startRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}
	if msg := h.validator.check(req); msg != "" {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	st, err := h.practice.StartSession(r.Context(), userID, req.Scope, req.Mode)
	switch {
	case errors.Is(err, service.ErrNoCandidates):
		respondWithError(w, http.StatusNotFound, "Nothing to study in this scope")
		return
	case errors.Is(err, service.ErrPoolTooSmall):
		respondWithError(w, http.StatusUnprocessableEntity, "Not enough distinct words for multiple choice")
		return
	case err != nil:
		h.logger.Error("failed to start session", zap.Int64("user_id", userID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	h.sessions.Store(userID, st)

	var dto sessionDTO
	err = h.sessions.Do(userID, func(st *service.SessionState) error {
		q, err := h.engine.Current(st)
		if err != nil {
			return err
		}
		dto = toSessionDTO(st, q)
		return nil
	})
	if err != nil {
		h.respondSessionError(w, userID, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, dto)
}

// GetSession handles GET /api/session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token (no user ID)")
		return
	}

	var dto sessionDTO
	err := h.sessions.Do(userID, func(st *service.SessionState) error {
		dto = toSessionDTO(st, h.currentQuestion(st))
		return nil
	})
	if err != nil {
		h.respondSessionError(w, userID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dto)
}

// SubmitAnswer handles POST /api/answers. Unless a wrong answer waits for
// acknowledgement, the session advances and the next question is returned.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token (no user ID)")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if msg := h.validator.check(req); msg != "" {
		respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	in := entities.AnswerInput{Text: req.Text, Quality: req.Quality, SelectedIndex: -1}
	if req.SelectedIndex != nil {
		in.SelectedIndex = *req.SelectedIndex
	}

	var resp answerResponse
	err := h.sessions.Do(userID, func(st *service.SessionState) error {
		res, err := h.engine.Answer(r.Context(), st, in)
		if err != nil {
			return err
		}

		resp = answerResponse{
			Correct:       res.Correct,
			Close:         res.Close,
			CorrectAnswer: res.Question.CorrectAnswer,
			Step:          res.Step,
			SyncFailed:    res.SyncErr != nil,
		}
		if res.Warn {
			resp.Warning = syncWarning
		}

		var next *entities.QuizQuestion
		if res.Step == service.StepAdvancing {
			if next, err = h.engine.Next(st); err != nil {
				return err
			}
		}
		resp.Session = toSessionDTO(st, next)
		resp.Step = st.Step

		if st.Complete() {
			h.sessions.Delete(userID)
		}
		return nil
	})
	if err != nil {
		h.respondSessionError(w, userID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// Acknowledge handles POST /api/session/ack in learn mode.
func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token (no user ID)")
		return
	}

	var dto sessionDTO
	err := h.sessions.Do(userID, func(st *service.SessionState) error {
		if err := h.engine.Acknowledge(st); err != nil {
			return err
		}
		next, err := h.engine.Next(st)
		if err != nil {
			return err
		}
		dto = toSessionDTO(st, next)
		if st.Complete() {
			h.sessions.Delete(userID)
		}
		return nil
	})
	if err != nil {
		h.respondSessionError(w, userID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dto)
}

// StopSession handles DELETE /api/session and returns the final score.
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token (no user ID)")
		return
	}

	var score entities.QuizScore
	err := h.sessions.Take(userID, func(st *service.SessionState) error {
		score = h.engine.Score(st)
		return nil
	})
	if err != nil {
		h.respondSessionError(w, userID, err)
		return
	}

	respondWithJSON(w, http.StatusOK, score)
}

// GetProgress handles GET /api/progress?scope=.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Invalid token (no user ID)")
		return
	}

	summary, err := h.progress.GetProgressSummary(r.Context(), userID, r.URL.Query().Get("scope"))
	if err != nil {
		h.logger.Error("failed to load progress", zap.Int64("user_id", userID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}

	respondWithJSON(w, http.StatusOK, toProgressDTO(summary))
}

func (h *Handler) currentQuestion(st *service.SessionState) *entities.QuizQuestion {
	if st.Step != service.StepAwaitingAnswer {
		return nil
	}
	q, err := h.engine.Current(st)
	if err != nil {
		return nil
	}
	return q
}

func (h *Handler) respondSessionError(w http.ResponseWriter, userID int64, err error) {
	switch {
	case errors.Is(err, storage.ErrNoSession), errors.Is(err, service.ErrSessionComplete):
		respondWithError(w, http.StatusNotFound, "No active session")
	case errors.Is(err, service.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, "Action not allowed in the current step")
	default:
		h.logger.Error("session request failed", zap.Int64("user_id", userID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal error")
	}
}
