package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/middleware"
)

// DocumentController handles student document uploads
type DocumentController struct {
	documentService DocumentService
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService DocumentService) *DocumentController {
	return &DocumentController{documentService: documentService}
}

// Upload stores a document of the authenticated student
// @Summary Upload a document
// @Description Accepts JPEG, PNG or PDF content. The type is detected from the bytes, not the file name.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param documentType formData string true "sop, lor, cv, transcript, certificate or other"
// @Param file formData file true "Document file"
// @Success 201 {object} dto.APIResponse{data=models.Document}
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported file"
// @Router /student/documents [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.DocumentUploadRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithField("file").
			WithDetails("file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(detail))
		return
	}

	doc, err := c.documentService.Upload(ctx.Request.Context(), userID, req.DocumentType, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, doc)
}

// List returns the authenticated student's documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DocumentListResponse}
// @Router /student/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	resp, err := c.documentService.List(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// Download streams a document back to its owner
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /student/documents/{id}/file [get]
func (c *DocumentController) Download(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	doc, path, err := c.documentService.Open(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Type", doc.MimeType)
	ctx.FileAttachment(path, doc.FileName)
}

// Delete removes a document
// @Summary Delete a document
// @Tags documents
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /student/documents/{id} [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.documentService.Delete(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
