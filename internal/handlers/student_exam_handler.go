package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StudentExamHandler struct {
	BaseHandler
	studentExamService services.StudentExamService
}

func NewStudentExamHandler(studentExamService services.StudentExamService, logger utils.Logger) *StudentExamHandler {
	return &StudentExamHandler{
		BaseHandler:        NewBaseHandler(logger),
		studentExamService: studentExamService,
	}
}

// StartExam opens a session on a published exam, or returns the one already open
// @Summary Start exam
// @Tags student-exams
// @Accept json
// @Produce json
// @Param body body services.StartExamRequest true "Exam to start"
// @Success 200 {object} services.SessionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /student-exams/start_exam [post]
func (h *StudentExamHandler) StartExam(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.StartExamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.studentExamService.Start(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SubmitAnswer saves or replaces the answer to one question
// @Summary Submit answer
// @Tags student-exams
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param body body services.SubmitAnswerRequest true "Answer"
// @Success 200 {object} services.StatusResponse
// @Router /student-exams/{id}/submit_answer [post]
func (h *StudentExamHandler) SubmitAnswer(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.studentExamService.SubmitAnswer(c.Request.Context(), user, id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.StatusResponse{Status: "Answer saved"})
}

// SubmitExam closes the session and grades the objective answers
// @Summary Submit exam
// @Tags student-exams
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.SubmitExamResponse
// @Failure 409 {object} ErrorResponse
// @Router /student-exams/{id}/submit_exam [post]
func (h *StudentExamHandler) SubmitExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting exam", "session_id", id)

	resp, err := h.studentExamService.SubmitExam(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GradeSession overrides answer marks and recomputes the score
// @Summary Grade session
// @Tags student-exams
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param body body services.GradeSessionRequest true "Marks per answer"
// @Success 200 {object} services.SessionResponse
// @Router /student-exams/{id} [patch]
func (h *StudentExamHandler) GradeSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.GradeSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.studentExamService.Grade(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListSessions lists the sessions visible to the caller
// @Router /student-exams [get]
func (h *StudentExamHandler) ListSessions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	sessions, err := h.studentExamService.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession retrieves a session with its answers
// @Router /student-exams/{id} [get]
func (h *StudentExamHandler) GetSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	session, err := h.studentExamService.Get(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
