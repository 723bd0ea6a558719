package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/pkg/response"
)

type chatService interface {
	Ask(ctx context.Context, courseID string, req models.AskQuestionRequest) (*models.ChatAnswer, error)
}

// ChatHandler answers questions about a course.
type ChatHandler struct {
	service chatService
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(svc chatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Ask godoc
// @Summary Ask about a course
// @Description Questions longer than 40 words are rejected. Provider failures answer "No response".
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.AskQuestionRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/chat [post]
func (h *ChatHandler) Ask(c *gin.Context) {
	var req models.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid question payload"))
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, answer)
}
