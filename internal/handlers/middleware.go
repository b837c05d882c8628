package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// AuthMiddleware resolves the bearer access token and stores the caller on
// the gin context.
func AuthMiddleware(authService services.AuthService, logger utils.Logger) gin.HandlerFunc {
	base := NewBaseHandler(logger)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			base.RespondWithError(c, http.StatusUnauthorized, "Authentication credentials were not provided", nil)
			c.Abort()
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			base.handleServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}
