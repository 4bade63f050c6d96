package dto

import "github.com/yigit/scholarpath/internal/app/models"

// DocumentUploadRequest is the form part of a document upload; the file travels as "file"
type DocumentUploadRequest struct {
	DocumentType models.DocumentType `form:"documentType" binding:"required,documenttype" example:"transcript"`
}

// DocumentListResponse lists a student's documents
type DocumentListResponse struct {
	Documents []*models.Document `json:"documents"`
}
