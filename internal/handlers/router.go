package handlers

import (
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	authService        services.AuthService
	logger             utils.Logger
	authHandler        *AuthHandler
	examHandler        *ExamHandler
	studentExamHandler *StudentExamHandler
	messageHandler     *MessageHandler
	swotHandler        *SWOTHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authService:        serviceManager.Auth(),
		logger:             logger,
		authHandler:        NewAuthHandler(serviceManager.Auth(), serviceManager.User(), serviceManager.Report(), logger),
		examHandler:        NewExamHandler(serviceManager.Exam(), serviceManager.Report(), logger),
		studentExamHandler: NewStudentExamHandler(serviceManager.StudentExam(), logger),
		messageHandler:     NewMessageHandler(serviceManager.Message(), logger),
		swotHandler:        NewSWOTHandler(serviceManager.SWOT(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Public auth routes
	public := v1.Group("/auth")
	{
		public.POST("/student/signup", hm.authHandler.StudentSignup)
		public.POST("/student/login", hm.authHandler.StudentLogin)
		public.POST("/professor/login", hm.authHandler.ProfessorLogin)
		public.POST("/token/refresh", hm.authHandler.RefreshToken)
	}

	protected := v1.Group("")
	protected.Use(AuthMiddleware(hm.authService, hm.logger))

	accounts := protected.Group("/auth")
	{
		accounts.GET("/me", hm.authHandler.Profile)
		accounts.GET("/student-count", hm.authHandler.StudentCount)
		accounts.GET("/students", hm.authHandler.ListStudents)
		accounts.GET("/students/export", hm.authHandler.ExportStudents)
	}

	exams := protected.Group("/exams")
	{
		exams.POST("", hm.examHandler.CreateExam)
		exams.GET("", hm.examHandler.ListExams)
		exams.GET("/:id", hm.examHandler.GetExam)
		exams.PATCH("/:id", hm.examHandler.UpdateExam)
		exams.DELETE("/:id", hm.examHandler.DeleteExam)
		exams.POST("/:id/publish", hm.examHandler.PublishExam)
		exams.POST("/:id/unpublish", hm.examHandler.UnpublishExam)

		exams.POST("/:id/questions", hm.examHandler.AddQuestion)
		exams.DELETE("/:id/questions/:question_id", hm.examHandler.DeleteQuestion)

		exams.GET("/:id/activity", hm.examHandler.GetActivity)
		exams.GET("/:id/results/export", hm.examHandler.ExportResults)
	}

	sessions := protected.Group("/student-exams")
	{
		sessions.GET("", hm.studentExamHandler.ListSessions)
		sessions.POST("/start_exam", hm.studentExamHandler.StartExam)
		sessions.GET("/:id", hm.studentExamHandler.GetSession)
		sessions.PATCH("/:id", hm.studentExamHandler.GradeSession)
		sessions.POST("/:id/submit_answer", hm.studentExamHandler.SubmitAnswer)
		sessions.POST("/:id/submit_exam", hm.studentExamHandler.SubmitExam)
	}

	messages := protected.Group("/messages")
	{
		messages.GET("", hm.messageHandler.ListMessages)
		messages.POST("", hm.messageHandler.SendMessage)
		messages.GET("/unread_count", hm.messageHandler.UnreadCount)
		messages.GET("/:id", hm.messageHandler.GetMessage)
		messages.POST("/:id/mark_read", hm.messageHandler.MarkRead)
	}

	swot := protected.Group("/swot")
	{
		swot.GET("/questions", hm.swotHandler.ListQuestions)
		swot.GET("/analyses", hm.swotHandler.ListAnalyses)
		swot.POST("/analyses/submit", hm.swotHandler.SubmitAnalysis)
		swot.GET("/analyses/my_analyses", hm.swotHandler.MyAnalyses)
		swot.GET("/analyses/:id", hm.swotHandler.GetAnalysis)
	}
}
