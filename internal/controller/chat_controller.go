package controller

import (
	"arogya_backend/internal/service"
	"arogya_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Workflow *service.WorkflowService
}

func NewChatController(workflow *service.WorkflowService) *ChatController {
	return &ChatController{Workflow: workflow}
}

// ChatRequest is one user turn. An empty sessionId starts a new
// conversation.
// swagger:model ChatRequest
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// Chat godoc
// @Summary Send a chat message
// @Description Routes the message through intent classification to the matching responder and returns the assistant reply
// @Tags chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChatRequest true "user message"
// @Success 200 {object} util.Response{data=service.Reply} "ok"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 403 {object} util.Response "session owned by another user"
// @Failure 404 {object} util.Response "session not found"
// @Router /api/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.Workflow.Handle(ctx.Request.Context(), req.SessionID, claims.UserID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrForbidden):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrUpstreamUnavailable):
			util.Error(ctx, 503, "assistant temporarily unavailable")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, reply)
}
