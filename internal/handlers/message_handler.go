package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(messageService services.MessageService, logger utils.Logger) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    NewBaseHandler(logger),
		messageService: messageService,
	}
}

// SendMessage stores a message from a student
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Param body body services.SendMessageRequest true "Message"
// @Success 201 {object} services.MessageResponse
// @Router /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages lists sent messages for a student, the inbox for a professor
// @Router /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// @Router /messages/{id} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	message, err := h.messageService.Get(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

// MarkRead flags a message as read
// @Router /messages/{id}/mark_read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.messageService.MarkRead(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.StatusResponse{Status: "Message marked as read"})
}

// UnreadCount counts unread messages in the professor's inbox
// @Router /messages/unread_count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.messageService.UnreadCount(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
