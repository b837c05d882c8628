package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SWOTHandler struct {
	BaseHandler
	swotService services.SWOTService
}

func NewSWOTHandler(swotService services.SWOTService, logger utils.Logger) *SWOTHandler {
	return &SWOTHandler{
		BaseHandler: NewBaseHandler(logger),
		swotService: swotService,
	}
}

// ListQuestions returns the active SWOT prompts
// @Summary List SWOT questions
// @Tags swot
// @Produce json
// @Success 200 {array} services.SWOTQuestionResponse
// @Router /swot/questions [get]
func (h *SWOTHandler) ListQuestions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	questions, err := h.swotService.ListQuestions(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// SubmitAnalysis stores a completed self-assessment
// @Summary Submit SWOT analysis
// @Tags swot
// @Accept json
// @Produce json
// @Param body body services.SubmitSWOTRequest true "Answers"
// @Success 201 {object} services.SWOTAnalysisResponse
// @Router /swot/analyses/submit [post]
func (h *SWOTHandler) SubmitAnalysis(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.SubmitSWOTRequest
	if !h.bindJSON(c, &req) {
		return
	}

	analysis, err := h.swotService.Submit(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, analysis)
}

// @Router /swot/analyses/my_analyses [get]
func (h *SWOTHandler) MyAnalyses(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	analyses, err := h.swotService.MyAnalyses(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyses)
}

// @Router /swot/analyses [get]
func (h *SWOTHandler) ListAnalyses(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	analyses, err := h.swotService.ListAnalyses(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyses)
}

// @Router /swot/analyses/{id} [get]
func (h *SWOTHandler) GetAnalysis(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	analysis, err := h.swotService.GetAnalysis(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
