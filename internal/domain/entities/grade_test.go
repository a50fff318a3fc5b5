package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToGrade(t *testing.T) {
	tests := []struct {
		name string
		mode RatingMode
		resp Response
		want Grade
	}{
		{name: "binary correct", mode: RatingBinary, resp: CorrectResponse(true), want: GradeGood},
		{name: "binary wrong", mode: RatingBinary, resp: CorrectResponse(false), want: GradeAgain},
		{name: "binary ignores quality", mode: RatingBinary, resp: QualityResponse(5), want: GradeGood},
		{name: "quality 0", mode: RatingFourLevel, resp: QualityResponse(0), want: GradeAgain},
		{name: "quality 1", mode: RatingFourLevel, resp: QualityResponse(1), want: GradeAgain},
		{name: "quality 2", mode: RatingFourLevel, resp: QualityResponse(2), want: GradeHard},
		{name: "quality 3", mode: RatingFourLevel, resp: QualityResponse(3), want: GradeGood},
		{name: "quality 4", mode: RatingFourLevel, resp: QualityResponse(4), want: GradeGood},
		{name: "quality 5", mode: RatingFourLevel, resp: QualityResponse(5), want: GradeEasy},
		{name: "quality clamped high", mode: RatingFourLevel, resp: QualityResponse(9), want: GradeEasy},
		{name: "quality clamped low", mode: RatingFourLevel, resp: QualityResponse(-3), want: GradeAgain},
		{name: "four level without quality", mode: RatingFourLevel, resp: CorrectResponse(true), want: GradeGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapToGrade(tt.mode, tt.resp))
		})
	}
}

func TestGradeString(t *testing.T) {
	assert.Equal(t, "hard", GradeHard.String())
	assert.Equal(t, "Grade(7)", Grade(7).String())
	assert.True(t, GradeEasy.IsCorrect())
	assert.False(t, GradeAgain.IsCorrect())
	assert.False(t, Grade(0).IsValid())
}
