package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListStudentsAverages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	professor := env.createUser(t, "prof", models.RoleProfessor)
	alice := env.createUser(t, "S001", models.RoleStudent)
	bob := env.createUser(t, "S002", models.RoleStudent)
	exam := env.createExam(t, professor, true)
	sessions := env.services.StudentExam()

	// Alice answers the single choice question only: 5 of 15.
	session, err := sessions.Start(ctx, alice, &StartExamRequest{ExamID: exam.ID})
	require.NoError(t, err)
	require.NoError(t, sessions.SubmitAnswer(ctx, alice, session.ID, &SubmitAnswerRequest{
		QuestionID:      exam.Questions[0].ID,
		SelectedChoices: choiceIDs(exam.Questions[0], "4"),
	}))
	_, err = sessions.SubmitExam(ctx, alice, session.ID)
	require.NoError(t, err)

	// Bob starts but never submits.
	_, err = sessions.Start(ctx, bob, &StartExamRequest{ExamID: exam.ID})
	require.NoError(t, err)

	students, err := env.services.User().ListStudents(ctx, professor)
	require.NoError(t, err)
	require.Len(t, students, 2)

	byID := map[uint]*StudentSummary{}
	for _, s := range students {
		byID[s.ID] = s
	}

	require.NotNil(t, byID[alice.ID].Average)
	assert.InDelta(t, 6.67, *byID[alice.ID].Average, 0.001)
	assert.Equal(t, int64(1), byID[alice.ID].ExamCount)
	assert.Equal(t, "S001", byID[alice.ID].StudentID)

	assert.Nil(t, byID[bob.ID].Average)
	assert.Zero(t, byID[bob.ID].ExamCount)
	assert.False(t, byID[bob.ID].HasSWOT)

	count, err := env.services.User().StudentCount(ctx, professor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Count)
}

func TestUserService_RosterRequiresProfessor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, "S001", models.RoleStudent)

	_, err := env.services.User().ListStudents(ctx, student)
	assert.True(t, IsForbidden(err))

	_, err = env.services.User().StudentCount(ctx, student)
	assert.True(t, IsForbidden(err))

	profile, err := env.services.User().Profile(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, "S001", profile.Username)

	_, err = env.services.User().Profile(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestStudentAverage(t *testing.T) {
	assert.Equal(t, 20.0, *studentAverage(15, 15))
	assert.Equal(t, 10.0, *studentAverage(5, 10))
	assert.Equal(t, 0.0, *studentAverage(3, 0))
}
