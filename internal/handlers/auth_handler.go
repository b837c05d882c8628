package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	BaseHandler
	authService   services.AuthService
	userService   services.UserService
	reportService services.ReportService
}

func NewAuthHandler(
	authService services.AuthService,
	userService services.UserService,
	reportService services.ReportService,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   NewBaseHandler(logger),
		authService:   authService,
		userService:   userService,
		reportService: reportService,
	}
}

// StudentSignup registers a student account
// @Summary Student signup
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.SignupRequest true "Signup data"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/student/signup [post]
func (h *AuthHandler) StudentSignup(c *gin.Context) {
	var req services.SignupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// StudentLogin authenticates a student
// @Summary Student login
// @Tags auth
// @Router /auth/student/login [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	h.login(c, models.RoleStudent)
}

// ProfessorLogin authenticates a professor
// @Summary Professor login
// @Tags auth
// @Router /auth/professor/login [post]
func (h *AuthHandler) ProfessorLogin(c *gin.Context) {
	h.login(c, models.RoleProfessor)
}

func (h *AuthHandler) login(c *gin.Context, role models.UserRole) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken exchanges a refresh token for a new access token
// @Summary Refresh access token
// @Tags auth
// @Router /auth/token/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile returns the caller
// @Router /auth/me [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.userService.Profile(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StudentCount returns the number of students
// @Router /auth/student-count [get]
func (h *AuthHandler) StudentCount(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.userService.StudentCount(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListStudents returns the student roster with averages
// @Router /auth/students [get]
func (h *AuthHandler) ListStudents(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	students, err := h.userService.ListStudents(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ExportStudents downloads the roster as a spreadsheet
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /auth/students/export [get]
func (h *AuthHandler) ExportStudents(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	file, err := h.reportService.ExportStudents(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendFile(c, file)
}

func sendFile(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
