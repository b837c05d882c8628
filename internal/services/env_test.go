package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/auth"
	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	tokens    *auth.TokenManager
	services  ServiceManager
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, cacheService cache.CacheService) *testEnv {
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

	require.NoError(t, postgres.Migrate(db, models.AllModels()...))

	log := testLogger()
	publisher := events.NewMockEventPublisher(log)
	tokens := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	repo := postgres.NewRepository(db)

	return &testEnv{
		db:        db,
		repo:      repo,
		publisher: publisher,
		tokens:    tokens,
		services: NewServiceManager(Dependencies{
			Repo:      repo,
			DB:        db,
			Tokens:    tokens,
			Cache:     cacheService,
			CacheTTL:  time.Minute,
			Publisher: publisher,
			Logger:    log,
			Validator: validator.New(),
		}),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     username + " name",
	}
	if role == models.RoleStudent {
		sid := username
		user.StudentID = &sid
	}
	require.NoError(t, e.repo.User().Create(context.Background(), nil, user))
	return user
}

// sampleExamRequest is a single-choice question worth 5 and a
// multiple-choice question worth 10 whose correct choices are A and C.
func sampleExamRequest(published bool) *CreateExamRequest {
	return &CreateExamRequest{
		Title:           "Algebra midterm",
		Description:     "Chapters 1-3",
		DurationMinutes: 60,
		IsPublished:     published,
		Questions: []QuestionRequest{
			{
				QuestionType: models.QuestionSingleChoice,
				QuestionText: "2 + 2 = ?",
				Marks:        5,
				Choices: []ChoiceRequest{
					{ChoiceText: "3"},
					{ChoiceText: "4", IsCorrect: true},
				},
			},
			{
				QuestionType: models.QuestionMultipleChoice,
				QuestionText: "Pick the primes",
				Marks:        10,
				Choices: []ChoiceRequest{
					{ChoiceText: "A: 2", IsCorrect: true},
					{ChoiceText: "B: 4"},
					{ChoiceText: "C: 5", IsCorrect: true},
				},
			},
		},
	}
}

func (e *testEnv) createExam(t *testing.T, professor *models.User, published bool) *ExamResponse {
	t.Helper()
	exam, err := e.services.Exam().Create(context.Background(), professor, sampleExamRequest(published))
	require.NoError(t, err)
	return exam
}
