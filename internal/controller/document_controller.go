package controller

import (
	"arogya_backend/internal/service"
	"arogya_backend/internal/util"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	DocumentService *service.DocumentService
	MaxUploadBytes  int64
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{
		DocumentService: documentService,
		MaxUploadBytes:  20 << 20, // 20 MB
	}
}

// Upload godoc
// @Summary Upload a medical document
// @Description Accepts a PDF, extracts and encrypts its text, and analyzes the content
// @Tags documents
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "PDF file"
// @Success 201 {object} util.Response{data=model.DocumentSummary} "created"
// @Failure 400 {object} util.Response "not a PDF"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/documents/upload [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > c.MaxUploadBytes {
		util.BadRequest(ctx, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	summary, err := c.DocumentService.Upload(ctx.Request.Context(), claims.UserID, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, util.ErrInvalidFormat) {
			util.BadRequest(ctx, "only PDF documents are supported")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, summary)
}

// List godoc
// @Summary List the current user's documents
// @Tags documents
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "page number, default 1"
// @Param   limit query int false "page size, default 20, max 100"
// @Success 200 {object} util.Response{data=util.PageResponse} "ok"
// @Failure 401 {object} util.Response "unauthorized"
// @Router /api/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pageParams(ctx)
	result, err := c.DocumentService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// pageParams reads the page/limit query pair with sane bounds.
func pageParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// Delete godoc
// @Summary Delete one of the current user's documents
// @Tags documents
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "document id"
// @Success 200 {object} util.Response "deleted"
// @Failure 401 {object} util.Response "unauthorized"
// @Failure 403 {object} util.Response "document owned by another user"
// @Failure 404 {object} util.Response "document not found"
// @Router /api/documents/{id} [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.DocumentService.Delete(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrForbidden):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
