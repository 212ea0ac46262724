package controller

import (
	"arogya_backend/internal/service"
	"arogya_backend/internal/util"
	"errors"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VoiceController struct {
	SpeechService *service.SpeechService
	Workflow      *service.WorkflowService
}

func NewVoiceController(speechService *service.SpeechService, workflow *service.WorkflowService) *VoiceController {
	return &VoiceController{SpeechService: speechService, Workflow: workflow}
}

// saveUpload writes the uploaded audio to a temp file and returns its path.
// The caller removes it when done.
func (c *VoiceController) saveUpload(ctx *gin.Context) (string, error) {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return "", err
	}

	path := filepath.Join(os.TempDir(), "voice-"+uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, path); err != nil {
		return "", err
	}
	return path, nil
}

// Transcribe godoc
// @Summary Transcribe an audio recording
// @Tags voice
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   audio formData file true "audio recording"
// @Success 200 {object} util.Response{data=service.Transcription} "ok"
// @Failure 400 {object} util.Response "not an audio file"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 503 {object} util.Response "transcription unavailable"
// @Router /api/voice/transcribe [post]
func (c *VoiceController) Transcribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.saveUpload(ctx)
	if err != nil {
		util.BadRequest(ctx, "audio file is required")
		return
	}
	defer os.Remove(path)

	result, err := c.SpeechService.Transcribe(ctx.Request.Context(), claims.UserID, path)
	if err != nil {
		c.voiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// TTSRequest is the synthesis payload.
// swagger:model TTSRequest
type TTSRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// Synthesize godoc
// @Summary Convert text to speech
// @Description Returns the URL of a cached mp3 for the text
// @Tags voice
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body TTSRequest true "text"
// @Success 200 {object} util.Response{data=object} "ok"
// @Failure 400 {object} util.Response "invalid payload"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 503 {object} util.Response "synthesis unavailable"
// @Router /api/voice/tts [post]
func (c *VoiceController) Synthesize(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req TTSRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	audioURL, err := c.SpeechService.Synthesize(ctx.Request.Context(), req.Text)
	if err != nil {
		c.voiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"audioUrl": audioURL})
}

// VoiceChat godoc
// @Summary Send a spoken chat message
// @Description Transcribes the audio, runs the chat workflow and returns the reply as text plus a spoken mp3
// @Tags voice
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   audio formData file true "audio recording"
// @Param   sessionId formData string false "existing session id"
// @Success 200 {object} util.Response{data=object} "ok"
// @Failure 400 {object} util.Response "not an audio file"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 503 {object} util.Response "assistant unavailable"
// @Router /api/chat/voice [post]
func (c *VoiceController) VoiceChat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.saveUpload(ctx)
	if err != nil {
		util.BadRequest(ctx, "audio file is required")
		return
	}
	defer os.Remove(path)

	transcription, err := c.SpeechService.Transcribe(ctx.Request.Context(), claims.UserID, path)
	if err != nil {
		c.voiceError(ctx, err)
		return
	}

	reply, err := c.Workflow.Handle(ctx.Request.Context(), ctx.PostForm("sessionId"), claims.UserID, transcription.Text)
	if err != nil {
		c.voiceError(ctx, err)
		return
	}

	// Best effort: the text reply stands on its own if synthesis fails.
	audioURL, err := c.SpeechService.Synthesize(ctx.Request.Context(), reply.Text)
	if err != nil {
		audioURL = ""
	}

	util.Success(ctx, gin.H{
		"sessionId":  reply.SessionID,
		"transcript": transcription.Text,
		"reply":      reply.Text,
		"intent":     reply.Intent,
		"audioUrl":   audioURL,
	})
}

func (c *VoiceController) voiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidFormat):
		util.BadRequest(ctx, "file does not contain an audio stream")
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrForbidden):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUpstreamUnavailable):
		util.Error(ctx, 503, "assistant temporarily unavailable")
	default:
		util.LogInternalError(ctx, err)
	}
}
