package validator

import (
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Type     string `json:"question_type" validate:"required,question_type"`
	Category string `json:"category" validate:"omitempty,swot_category"`
	Role     string `json:"role" validate:"omitempty,user_role"`
	Text     string `json:"text" validate:"not_blank"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(sampleRequest{Type: "single_choice", Category: "threat", Role: "professor", Text: "x"}))

	err := v.Validate(sampleRequest{Type: "essay", Category: "luck", Role: "admin", Text: "   "})
	require.Error(t, err)

	errs, ok := err.(ValidationErrors)
	require.True(t, ok)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Rule
	}
	assert.Equal(t, "question_type", fields["question_type"])
	assert.Equal(t, "swot_category", fields["category"])
	assert.Equal(t, "user_role", fields["role"])
	assert.Equal(t, "not_blank", fields["text"])
}

func TestQuestionValidator_ValidateShape(t *testing.T) {
	qv := NewQuestionValidator()

	two := func(firstCorrect, secondCorrect bool) []ChoiceShape {
		return []ChoiceShape{{Text: "a", IsCorrect: firstCorrect}, {Text: "b", IsCorrect: secondCorrect}}
	}

	tests := []struct {
		name      string
		qType     models.QuestionType
		choices   []ChoiceShape
		wantRules []string
	}{
		{"single choice ok", models.QuestionSingleChoice, two(true, false), nil},
		{"single choice two correct", models.QuestionSingleChoice, two(true, true), []string{"one_correct"}},
		{"single choice too few", models.QuestionSingleChoice, []ChoiceShape{{Text: "a", IsCorrect: true}}, []string{"min_choices"}},
		{"true false ok", models.QuestionTrueFalse, two(false, true), nil},
		{"true false three choices", models.QuestionTrueFalse, append(two(true, false), ChoiceShape{Text: "c"}), []string{"two_choices"}},
		{"multiple choice ok", models.QuestionMultipleChoice, two(true, true), nil},
		{"multiple choice none correct", models.QuestionMultipleChoice, two(false, false), []string{"min_correct"}},
		{"long answer ok", models.QuestionLongAnswer, nil, nil},
		{"long answer with choices", models.QuestionLongAnswer, two(true, false), []string{"no_choices"}},
		{"unknown type", models.QuestionType("essay"), nil, []string{"question_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := qv.ValidateShape("questions[0]", tt.qType, tt.choices)
			var rules []string
			for _, e := range errs {
				rules = append(rules, e.Rule)
			}
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestQuestionValidator_FieldPrefix(t *testing.T) {
	errs := NewQuestionValidator().ValidateShape("questions[3]", models.QuestionLongAnswer, []ChoiceShape{{Text: "a"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "questions[3].choices", errs[0].Field)

	errs = NewQuestionValidator().ValidateShape("", models.QuestionLongAnswer, []ChoiceShape{{Text: "a"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "choices", errs[0].Field)
}
