package httpapi

import (
	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
)

// questionDTO is a question as shown to the client; the answer is not included.
type questionDTO struct {
	WordID    int64                 `json:"word_id"`
	Type      entities.QuestionType `json:"type"`
	Direction entities.Direction    `json:"direction"`
	Prompt    string                `json:"prompt"`
	Options   []string              `json:"options,omitempty"`
	Round     int                   `json:"round"`
	Index     int                   `json:"index"`
	Total     int                   `json:"total"`
}

type sessionDTO struct {
	ID       string             `json:"id"`
	Scope    string             `json:"scope"`
	Mode     entities.QuizMode  `json:"mode"`
	Phase    service.Phase      `json:"phase"`
	Step     service.Step       `json:"step,omitempty"`
	Score    entities.QuizScore `json:"score"`
	Question *questionDTO       `json:"question,omitempty"`
}

type startRequest struct {
	Scope string            `json:"scope" validate:"max=128"`
	Mode  entities.QuizMode `json:"mode" validate:"omitempty,oneof=quiz learn"`
}

type answerRequest struct {
	SelectedIndex *int   `json:"selected_index" validate:"omitempty,min=0,max=3"`
	Text          string `json:"text" validate:"max=256"`
	Quality       *int   `json:"quality" validate:"omitempty,min=0,max=5"`
}

type answerResponse struct {
	Correct       bool         `json:"correct"`
	Close         bool         `json:"close"`
	CorrectAnswer string       `json:"correct_answer"`
	Step          service.Step `json:"step,omitempty"`
	SyncFailed    bool         `json:"sync_failed"`
	Warning       string       `json:"warning,omitempty"`
	Session       sessionDTO   `json:"session"`
}

type progressDTO struct {
	Scope          string  `json:"scope"`
	Total          int     `json:"total"`
	New            int     `json:"new"`
	Learning       int     `json:"learning"`
	Review         int     `json:"review"`
	Mastered       int     `json:"mastered"`
	DueNow         int     `json:"due_now"`
	Percentage     float64 `json:"percentage"`
	Accuracy       float64 `json:"accuracy"`
	Retrievability float64 `json:"retrievability"`
}

const syncWarning = "progress could not be saved; it will be retried with the next answer"

func toQuestionDTO(st *service.SessionState, q *entities.QuizQuestion) *questionDTO {
	if q == nil {
		return nil
	}
	return &questionDTO{
		WordID:    q.Word.ID,
		Type:      q.Type,
		Direction: q.Direction,
		Prompt:    q.Prompt,
		Options:   q.Options,
		Round:     st.Round,
		Index:     st.Index,
		Total:     len(st.Questions),
	}
}

func toSessionDTO(st *service.SessionState, q *entities.QuizQuestion) sessionDTO {
	return sessionDTO{
		ID:       st.ID.String(),
		Scope:    st.Scope,
		Mode:     st.Config.Mode,
		Phase:    st.Phase,
		Step:     st.Step,
		Score:    st.Score(),
		Question: toQuestionDTO(st, q),
	}
}

func toProgressDTO(s *service.ProgressSummary) progressDTO {
	return progressDTO{
		Scope:          s.Scope,
		Total:          s.Stats.Total,
		New:            s.Stats.NewCount,
		Learning:       s.Stats.LearningCount,
		Review:         s.Stats.ReviewCount,
		Mastered:       s.Stats.MasteredCount,
		DueNow:         s.Stats.DueNow,
		Percentage:     s.Percentage,
		Accuracy:       s.Accuracy,
		Retrievability: s.Retrievability,
	}
}
