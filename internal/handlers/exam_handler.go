package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	BaseHandler
	examService   services.ExamService
	reportService services.ReportService
}

func NewExamHandler(
	examService services.ExamService,
	reportService services.ReportService,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler:   NewBaseHandler(logger),
		examService:   examService,
		reportService: reportService,
	}
}

// CreateExam creates an exam with its questions
// @Summary Create exam
// @Description Creates an exam together with its questions and choices
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body services.CreateExamRequest true "Exam data"
// @Success 201 {object} services.ExamResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /exams [post]
func (h *ExamHandler) CreateExam(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.CreateExamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating exam", "title", req.Title, "questions", len(req.Questions))

	exam, err := h.examService.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// ListExams lists the exams visible to the caller
// @Summary List exams
// @Tags exams
// @Produce json
// @Success 200 {array} services.ExamResponse
// @Router /exams [get]
func (h *ExamHandler) ListExams(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	exams, err := h.examService.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// GetExam retrieves an exam with its questions
// @Summary Get exam
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.ExamResponse
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	exam, err := h.examService.Get(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// UpdateExam partially updates exam metadata
// @Summary Update exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param exam body services.UpdateExamRequest true "Fields to change"
// @Success 200 {object} services.ExamResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [patch]
func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.UpdateExamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// DeleteExam deletes an exam and everything under it
// @Summary Delete exam
// @Tags exams
// @Param id path uint true "Exam ID"
// @Success 204
// @Router /exams/{id} [delete]
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting exam", "exam_id", id)

	if err := h.examService.Delete(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishExam makes an exam visible to students
// @Summary Publish exam
// @Tags exams
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.StatusResponse
// @Router /exams/{id}/publish [post]
func (h *ExamHandler) PublishExam(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishExam hides an exam from students
// @Summary Unpublish exam
// @Tags exams
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.StatusResponse
// @Router /exams/{id}/unpublish [post]
func (h *ExamHandler) UnpublishExam(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ExamHandler) setPublished(c *gin.Context, published bool) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	action, status := h.examService.Publish, "Exam published"
	if !published {
		action, status = h.examService.Unpublish, "Exam unpublished"
	}
	if err := action(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.StatusResponse{Status: status})
}

// AddQuestion appends a question to an exam
// @Summary Add question
// @Tags exams
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param question body services.QuestionRequest true "Question data"
// @Success 201 {object} services.QuestionResponse
// @Router /exams/{id}/questions [post]
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.QuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.examService.AddQuestion(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// DeleteQuestion removes a question from an exam
// @Summary Delete question
// @Tags exams
// @Param id path uint true "Exam ID"
// @Param question_id path uint true "Question ID"
// @Success 204
// @Router /exams/{id}/questions/{question_id} [delete]
func (h *ExamHandler) DeleteQuestion(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.examService.DeleteQuestion(c.Request.Context(), user, id, questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetActivity returns the audit trail of an exam
// @Summary Exam activity
// @Tags exams
// @Param id path uint true "Exam ID"
// @Success 200 {array} models.AuditLog
// @Router /exams/{id}/activity [get]
func (h *ExamHandler) GetActivity(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	logs, err := h.examService.Activity(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// ExportResults downloads every session of an exam as a spreadsheet
// @Summary Export exam results
// @Tags exams
// @Param id path uint true "Exam ID"
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /exams/{id}/results/export [get]
func (h *ExamHandler) ExportResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	file, err := h.reportService.ExportResults(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendFile(c, file)
}
