package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (repositories.Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db, models.AllModels()...))
	return NewRepository(db), db
}

func seedUser(t *testing.T, repo repositories.Repository, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: role}
	if role == models.RoleStudent {
		sid := "S-" + username
		user.StudentID = &sid
	}
	require.NoError(t, repo.User().Create(context.Background(), nil, user))
	return user
}

func seedExam(t *testing.T, repo repositories.Repository, professorID uint) *models.Exam {
	t.Helper()
	exam := &models.Exam{
		Title:           "Chemistry",
		ProfessorID:     professorID,
		DurationMinutes: 30,
		TotalMarks:      10,
		IsPublished:     true,
		Questions: []models.Question{
			{
				QuestionType: models.QuestionSingleChoice,
				QuestionText: "H2O is",
				Marks:        4,
				Order:        1,
				Choices: []models.Choice{
					{ChoiceText: "water", IsCorrect: true},
					{ChoiceText: "salt"},
				},
			},
			{
				QuestionType: models.QuestionLongAnswer,
				QuestionText: "Explain bonding",
				Marks:        6,
				Order:        2,
			},
		},
	}
	require.NoError(t, repo.Exam().Create(context.Background(), nil, exam))
	return exam
}

func TestStudentExam_CreateIfAbsent(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	student := seedUser(t, repo, "alice", models.RoleStudent)
	exam := seedExam(t, repo, prof.ID)

	now := time.Now()
	first := &models.StudentExam{StudentID: student.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now}
	created, err := repo.StudentExam().CreateIfAbsent(ctx, nil, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &models.StudentExam{StudentID: student.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now}
	created, err = repo.StudentExam().CreateIfAbsent(ctx, nil, second)
	require.NoError(t, err)
	assert.False(t, created)

	sessions, err := repo.StudentExam().List(ctx, nil, repositories.StudentExamFilters{ExamID: &exam.ID})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestStudentExam_UpsertAnswerReplacesChoices(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	student := seedUser(t, repo, "alice", models.RoleStudent)
	exam := seedExam(t, repo, prof.ID)

	now := time.Now()
	session := &models.StudentExam{StudentID: student.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now}
	_, err := repo.StudentExam().CreateIfAbsent(ctx, nil, session)
	require.NoError(t, err)

	question := exam.Questions[0]
	first := &models.Answer{StudentExamID: session.ID, QuestionID: question.ID}
	require.NoError(t, repo.StudentExam().UpsertAnswer(ctx, nil, first, []models.Choice{question.Choices[1]}))

	second := &models.Answer{StudentExamID: session.ID, QuestionID: question.ID}
	require.NoError(t, repo.StudentExam().UpsertAnswer(ctx, nil, second, []models.Choice{question.Choices[0]}))
	assert.Equal(t, first.ID, second.ID)

	answers, err := repo.StudentExam().GetAnswers(ctx, nil, session.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	require.Len(t, answers[0].SelectedChoices, 1)
	assert.Equal(t, question.Choices[0].ID, answers[0].SelectedChoices[0].ID)
	assert.Len(t, answers[0].Question.Choices, 2)

	// An empty selection clears the previous one.
	third := &models.Answer{StudentExamID: session.ID, QuestionID: question.ID}
	require.NoError(t, repo.StudentExam().UpsertAnswer(ctx, nil, third, nil))
	answers, err = repo.StudentExam().GetAnswers(ctx, nil, session.ID)
	require.NoError(t, err)
	assert.Empty(t, answers[0].SelectedChoices)
}

func TestStudentExam_GetStudentResultStats(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	alice := seedUser(t, repo, "alice", models.RoleStudent)
	bob := seedUser(t, repo, "bob", models.RoleStudent)
	exam := seedExam(t, repo, prof.ID)
	other := seedExam(t, repo, prof.ID)

	now := time.Now()
	score := 7.5
	sessions := []*models.StudentExam{
		{StudentID: alice.ID, ExamID: exam.ID, Status: models.SessionGraded, StartedAt: &now, SubmittedAt: &now, Score: &score},
		{StudentID: alice.ID, ExamID: other.ID, Status: models.SessionInProgress, StartedAt: &now},
		{StudentID: bob.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now},
	}
	for _, s := range sessions {
		_, err := repo.StudentExam().CreateIfAbsent(ctx, nil, s)
		require.NoError(t, err)
	}

	stats, err := repo.StudentExam().GetStudentResultStats(ctx, nil)
	require.NoError(t, err)

	require.Contains(t, stats, alice.ID)
	assert.Equal(t, int64(1), stats[alice.ID].ExamCount)
	assert.InDelta(t, 7.5, stats[alice.ID].ScoreSum, 0.001)
	assert.InDelta(t, 10, stats[alice.ID].PossibleSum, 0.001)
	assert.NotContains(t, stats, bob.ID)
}

func TestMessage_InboxAndUnreadCount(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	otherProf := seedUser(t, repo, "other", models.RoleProfessor)
	student := seedUser(t, repo, "alice", models.RoleStudent)

	messages := []*models.Message{
		{StudentID: student.ID, ProfessorID: &prof.ID, Title: "direct", Body: "hi"},
		{StudentID: student.ID, Title: "broadcast", Body: "all"},
		{StudentID: student.ID, ProfessorID: &otherProf.ID, Title: "elsewhere", Body: "x"},
	}
	for _, m := range messages {
		require.NoError(t, repo.Message().Create(ctx, nil, m))
	}

	inbox, err := repo.Message().List(ctx, nil, repositories.MessageFilters{InboxOf: &prof.ID})
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	count, err := repo.Message().CountUnread(ctx, nil, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Message().MarkRead(ctx, nil, messages[1].ID))
	count, err = repo.Message().CountUnread(ctx, nil, otherProf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = repo.Message().MarkRead(ctx, nil, 999)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestExam_DeleteRemovesDependents(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	student := seedUser(t, repo, "alice", models.RoleStudent)
	exam := seedExam(t, repo, prof.ID)

	now := time.Now()
	session := &models.StudentExam{StudentID: student.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now}
	_, err := repo.StudentExam().CreateIfAbsent(ctx, nil, session)
	require.NoError(t, err)
	question := exam.Questions[0]
	require.NoError(t, repo.StudentExam().UpsertAnswer(ctx, nil,
		&models.Answer{StudentExamID: session.ID, QuestionID: question.ID}, []models.Choice{question.Choices[0]}))

	require.NoError(t, repo.Exam().Delete(ctx, nil, exam.ID))

	for _, model := range []interface{}{&models.Exam{}, &models.Question{}, &models.Choice{}, &models.StudentExam{}, &models.Answer{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
	var links int64
	require.NoError(t, db.Table("answer_selected_choices").Count(&links).Error)
	assert.Zero(t, links)

	err = repo.Exam().Delete(ctx, nil, exam.ID)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestExam_RecalculateTotalMarks(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	exam := seedExam(t, repo, prof.ID)

	maxOrder, err := repo.Exam().MaxQuestionOrder(ctx, nil, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, maxOrder)

	require.NoError(t, repo.Exam().DeleteQuestion(ctx, nil, exam.Questions[1].ID))
	total, err := repo.Exam().RecalculateTotalMarks(ctx, nil, exam.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4, total, 0.001)

	stored, err := repo.Exam().GetByID(ctx, nil, exam.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4, stored.TotalMarks, 0.001)
}

func TestExam_GetChoicesFiltersForeignIDs(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	exam := seedExam(t, repo, prof.ID)
	other := seedExam(t, repo, prof.ID)

	own := exam.Questions[0]
	foreign := other.Questions[0].Choices[0].ID
	choices, err := repo.Exam().GetChoices(ctx, nil, own.ID, []uint{own.Choices[0].ID, foreign})
	require.NoError(t, err)
	require.Len(t, choices, 1)
	assert.Equal(t, own.Choices[0].ID, choices[0].ID)
}

func TestStudentExam_MarkSubmittedOnlyOnce(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	student := seedUser(t, repo, "alice", models.RoleStudent)
	exam := seedExam(t, repo, prof.ID)

	now := time.Now()
	session := &models.StudentExam{StudentID: student.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now}
	_, err := repo.StudentExam().CreateIfAbsent(ctx, nil, session)
	require.NoError(t, err)

	open, err := repo.StudentExam().LockOpen(ctx, nil, session.ID)
	require.NoError(t, err)
	assert.True(t, open)

	submitted, err := repo.StudentExam().MarkSubmitted(ctx, nil, session.ID, now)
	require.NoError(t, err)
	assert.True(t, submitted)

	submitted, err = repo.StudentExam().MarkSubmitted(ctx, nil, session.ID, now)
	require.NoError(t, err)
	assert.False(t, submitted)

	open, err = repo.StudentExam().LockOpen(ctx, nil, session.ID)
	require.NoError(t, err)
	assert.False(t, open)

	stored, err := repo.StudentExam().GetByID(ctx, nil, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionSubmitted, stored.Status)
	assert.NotNil(t, stored.SubmittedAt)
}

func TestStudentExam_GetByIDWithDetailsLoadsSessionGraph(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	prof := seedUser(t, repo, "prof", models.RoleProfessor)
	student := seedUser(t, repo, "alice", models.RoleStudent)
	exam := seedExam(t, repo, prof.ID)

	now := time.Now()
	session := &models.StudentExam{StudentID: student.ID, ExamID: exam.ID, Status: models.SessionInProgress, StartedAt: &now}
	_, err := repo.StudentExam().CreateIfAbsent(ctx, nil, session)
	require.NoError(t, err)
	question := exam.Questions[0]
	require.NoError(t, repo.StudentExam().UpsertAnswer(ctx, nil,
		&models.Answer{StudentExamID: session.ID, QuestionID: question.ID}, []models.Choice{question.Choices[0]}))

	detailed, err := repo.StudentExam().GetByIDWithDetails(ctx, nil, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", detailed.Student.Username)
	assert.Equal(t, "Chemistry", detailed.Exam.Title)
	require.Len(t, detailed.Answers, 1)
	assert.Len(t, detailed.Answers[0].SelectedChoices, 1)
	assert.Empty(t, detailed.Exam.Questions)
}
