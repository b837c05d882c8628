package services

import (
	"github.com/SAP-F-2025/exam-service/internal/models"
)

// GradeObjective scores one answer to an objective question. Single choice
// and true/false award full marks only when exactly the one correct choice
// is selected; multiple choice requires the selected set to equal the
// correct set. There is no partial credit. Long answers return nil and are
// left for the professor.
func GradeObjective(questionType models.QuestionType, marks float64, correct, selected []uint) *float64 {
	var awarded float64

	switch questionType {
	case models.QuestionSingleChoice, models.QuestionTrueFalse:
		if len(correct) == 1 && len(selected) == 1 && selected[0] == correct[0] {
			awarded = marks
		}
	case models.QuestionMultipleChoice:
		if sameSet(correct, selected) {
			awarded = marks
		}
	case models.QuestionLongAnswer:
		return nil
	default:
		return nil
	}

	return &awarded
}

// GradeAnswer applies GradeObjective to an answer loaded with its question,
// the question's choices and the selected choices.
func GradeAnswer(answer *models.Answer) *float64 {
	return GradeObjective(
		answer.Question.QuestionType,
		answer.Question.Marks,
		answer.Question.CorrectChoiceIDs(),
		answer.SelectedChoiceIDs(),
	)
}

// SumMarks totals the recorded marks, counting ungraded answers as zero.
func SumMarks(answers []*models.Answer) float64 {
	var total float64
	for _, a := range answers {
		if a.MarksObtained != nil {
			total += *a.MarksObtained
		}
	}
	return total
}

func sameSet(a, b []uint) bool {
	left := make(map[uint]struct{}, len(a))
	for _, id := range a {
		left[id] = struct{}{}
	}
	right := make(map[uint]struct{}, len(b))
	for _, id := range b {
		right[id] = struct{}{}
	}
	if len(left) != len(right) {
		return false
	}
	for id := range left {
		if _, ok := right[id]; !ok {
			return false
		}
	}
	return true
}
