package services

import (
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeObjective(t *testing.T) {
	tests := []struct {
		name         string
		questionType models.QuestionType
		marks        float64
		correct      []uint
		selected     []uint
		want         *float64
	}{
		{"single choice correct", models.QuestionSingleChoice, 5, []uint{2}, []uint{2}, floatPtr(5)},
		{"single choice wrong", models.QuestionSingleChoice, 5, []uint{2}, []uint{1}, floatPtr(0)},
		{"single choice two selected", models.QuestionSingleChoice, 5, []uint{2}, []uint{1, 2}, floatPtr(0)},
		{"single choice nothing selected", models.QuestionSingleChoice, 5, []uint{2}, nil, floatPtr(0)},
		{"true false correct", models.QuestionTrueFalse, 2, []uint{7}, []uint{7}, floatPtr(2)},
		{"multiple choice exact set", models.QuestionMultipleChoice, 10, []uint{1, 3}, []uint{3, 1}, floatPtr(10)},
		{"multiple choice subset", models.QuestionMultipleChoice, 10, []uint{1, 3}, []uint{1}, floatPtr(0)},
		{"multiple choice superset", models.QuestionMultipleChoice, 10, []uint{1, 3}, []uint{1, 2, 3}, floatPtr(0)},
		{"long answer left ungraded", models.QuestionLongAnswer, 8, nil, nil, nil},
		{"unknown type left ungraded", models.QuestionType("essay"), 8, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradeObjective(tt.questionType, tt.marks, tt.correct, tt.selected)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestGradeAnswer_UsesLoadedChoices(t *testing.T) {
	answer := &models.Answer{
		Question: models.Question{
			QuestionType: models.QuestionMultipleChoice,
			Marks:        10,
			Choices: []models.Choice{
				{ID: 1, IsCorrect: true},
				{ID: 2},
				{ID: 3, IsCorrect: true},
			},
		},
		SelectedChoices: []models.Choice{{ID: 1}, {ID: 3}},
	}

	got := GradeAnswer(answer)
	require.NotNil(t, got)
	assert.Equal(t, 10.0, *got)
}

func TestSumMarks_TreatsUngradedAsZero(t *testing.T) {
	answers := []*models.Answer{
		{MarksObtained: floatPtr(5)},
		{MarksObtained: nil},
		{MarksObtained: floatPtr(2.5)},
	}
	assert.Equal(t, 7.5, SumMarks(answers))
	assert.Equal(t, 0.0, SumMarks(nil))
}

func floatPtr(v float64) *float64 {
	return &v
}
