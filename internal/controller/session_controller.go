package controller

import (
	"arogya_backend/internal/model"
	"arogya_backend/internal/repository"
	"arogya_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Sessions *repository.SessionRepository
	Audit    *repository.AuditRepository
}

func NewSessionController(sessions *repository.SessionRepository, audit *repository.AuditRepository) *SessionController {
	return &SessionController{Sessions: sessions, Audit: audit}
}

// CreateSessionRequest names a new conversation.
// swagger:model CreateSessionRequest
type CreateSessionRequest struct {
	Title string `json:"title" binding:"max=100"`
}

// CreateSession godoc
// @Summary Start a new chat session
// @Tags chat
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateSessionRequest false "optional title"
// @Success 201 {object} util.Response{data=model.ChatSession} "created"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Title == "" {
		req.Title = "New conversation"
	}

	session := &model.ChatSession{UserID: claims.UserID, Title: req.Title}
	if err := c.Sessions.Create(session); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if err := c.Audit.Append(claims.UserID, model.AuditCreateSession, session.ID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// ListSessions godoc
// @Summary List the current user's chat sessions
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatSession} "ok"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.Sessions.FindByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// GetMessages godoc
// @Summary Get the full transcript of one session
// @Tags chat
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "session id"
// @Success 200 {object} util.Response{data=[]model.ChatMessage} "ok"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 403 {object} util.Response "session owned by another user"
// @Failure 404 {object} util.Response "session not found"
// @Router /api/sessions/{id}/messages [get]
func (c *SessionController) GetMessages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Sessions.FindByID(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if session.UserID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	messages, err := c.Sessions.AllMessages(session.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}
