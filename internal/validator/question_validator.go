package validator

import (
	"fmt"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// QuestionValidator checks that a question's choices fit its type
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ChoiceShape is the part of a choice the shape rules look at.
type ChoiceShape struct {
	Text      string
	IsCorrect bool
}

// ValidateShape applies the per-type choice rules:
//   - long_answer carries no choices
//   - single_choice needs two or more choices, exactly one correct
//   - true_false needs exactly two choices, exactly one correct
//   - multiple_choice needs two or more choices, at least one correct
//
// field prefixes the reported field names, e.g. "questions[2]".
func (v *QuestionValidator) ValidateShape(field string, questionType models.QuestionType, choices []ChoiceShape) ValidationErrors {
	var errs ValidationErrors
	add := func(suffix, message, rule string) {
		errs = append(errs, *NewValidationErrorWithRule(joinField(field, suffix), message, rule, nil))
	}

	correct := 0
	for _, c := range choices {
		if c.IsCorrect {
			correct++
		}
	}

	switch questionType {
	case models.QuestionLongAnswer:
		if len(choices) > 0 {
			add("choices", "must be empty for long_answer questions", "no_choices")
		}
	case models.QuestionSingleChoice:
		if len(choices) < 2 {
			add("choices", "must contain at least 2 choices", "min_choices")
		}
		if correct != 1 {
			add("choices", "must contain exactly one correct choice", "one_correct")
		}
	case models.QuestionTrueFalse:
		if len(choices) != 2 {
			add("choices", "must contain exactly 2 choices", "two_choices")
		}
		if correct != 1 {
			add("choices", "must contain exactly one correct choice", "one_correct")
		}
	case models.QuestionMultipleChoice:
		if len(choices) < 2 {
			add("choices", "must contain at least 2 choices", "min_choices")
		}
		if correct < 1 {
			add("choices", "must contain at least one correct choice", "min_correct")
		}
	default:
		add("question_type", fmt.Sprintf("unsupported question type %q", questionType), "question_type")
	}

	return errs
}

func joinField(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}
