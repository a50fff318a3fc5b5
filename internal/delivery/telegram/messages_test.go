package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
	"github.com/aliskhannn/lexis-bot/internal/service"
)

func TestBuildProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░]", buildProgressBar(0, 0, 4))
	assert.Equal(t, "[██░░]", buildProgressBar(1, 2, 4))
	assert.Equal(t, "[████]", buildProgressBar(9, 2, 4))
}

func TestMarkdownEscaping(t *testing.T) {
	assert.Equal(t, `1\. a\-b`, md("1. a-b"))
	assert.Equal(t, `*x\_y*`, bold("x_y"))
}

func TestFormatQuizQuestion(t *testing.T) {
	q := &entities.QuizQuestion{
		Type:      entities.QuestionWriting,
		Direction: entities.DirectionNativeToTarget,
		Prompt:    "house",
	}
	text := formatQuizQuestion(q, 1, 0, 5)
	assert.Contains(t, text, "Question 1 of 5")
	assert.Contains(t, text, "*house*")
	assert.Contains(t, text, "capitals count")
}

func TestFormatAnswerFeedback(t *testing.T) {
	q := entities.QuizQuestion{Prompt: "Haus", CorrectAnswer: "house"}

	assert.NotContains(t, formatAnswerFeedback(&service.AnswerResult{Question: q, Correct: true}), "Correct answer")

	wrong := formatAnswerFeedback(&service.AnswerResult{Question: q})
	assert.Contains(t, wrong, "Correct answer")
	assert.Contains(t, wrong, "*house*")

	assert.Contains(t, formatAnswerFeedback(&service.AnswerResult{Question: q, Close: true}), "Almost")
}

func TestFormatQuizResult(t *testing.T) {
	text := formatQuizResult(entities.QuizScore{CorrectCount: 9, TotalAnswered: 10, Rounds: 2})
	assert.Contains(t, text, "9/10 \\(90%\\)")
	assert.Contains(t, text, "Excellent")

	assert.Contains(t, formatQuizResult(entities.QuizScore{}), "0/0")
}

func TestQualityFor(t *testing.T) {
	st := &service.SessionState{Config: entities.DefaultQuizConfig()}
	mc := &entities.QuizQuestion{Type: entities.QuestionMultipleChoice}
	wr := &entities.QuizQuestion{Type: entities.QuestionWriting}

	assert.Nil(t, qualityFor(st, mc))

	st.Config.RatingMode = entities.RatingFourLevel
	assert.Equal(t, qualityRecognized, *qualityFor(st, mc))
	assert.Equal(t, qualityProduced, *qualityFor(st, wr))
}

func TestBuildTokenMessage(t *testing.T) {
	text := buildTokenMessage("aaa.bbb-ccc_ddd")

	assert.Contains(t, text, "`aaa.bbb-ccc_ddd`")
	assert.Contains(t, text, "Bearer token and keep it private:")
}
