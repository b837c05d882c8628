package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/gin-gonic/gin"
)

// handleServiceError maps a service error onto the HTTP status table shared
// by every handler.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, err.Error())
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, unauthorizedMessage(err), err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, notFoundMessage(err), err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, conflictMessage(err), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, services.ErrInvalidToken):
		return "Invalid or expired token"
	default:
		return "User not authenticated"
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrExamNotFound):
		return "Exam not found"
	case errors.Is(err, services.ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, services.ErrSessionNotFound):
		return "Exam session not found"
	case errors.Is(err, services.ErrMessageNotFound):
		return "Message not found"
	case errors.Is(err, services.ErrAnalysisNotFound):
		return "SWOT analysis not found"
	default:
		return "Resource not found"
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrDuplicateUser):
		return "User already exists"
	case errors.Is(err, services.ErrSessionAlreadySubmitted):
		return "Exam already submitted"
	case errors.Is(err, services.ErrSessionNotSubmitted):
		return "Exam has not been submitted"
	default:
		return "Resource conflict"
	}
}
