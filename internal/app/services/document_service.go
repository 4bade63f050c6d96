package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/filestorage"
)

// DocumentService stores application documents of students
type DocumentService struct {
	documents DocumentStore
	storage   filestorage.FileStorage
	logger    zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documents DocumentStore, storage filestorage.FileStorage, logger zerolog.Logger) *DocumentService {
	return &DocumentService{documents: documents, storage: storage, logger: logger}
}

func studentDir(studentID int64) string {
	return fmt.Sprintf("students/%d", studentID)
}

// Upload validates and stores a file, then records it for the student
func (s *DocumentService) Upload(ctx context.Context, studentID int64, docType models.DocumentType, fileHeader *multipart.FileHeader) (*models.Document, error) {
	if !docType.Valid() {
		return nil, apperrors.NewBadRequestError("Unknown document type")
	}

	info, err := s.storage.SaveFileWithPath(fileHeader, studentDir(studentID))
	if err != nil {
		switch {
		case errors.Is(err, filestorage.ErrUnsupportedType):
			return nil, apperrors.NewBadRequestError("Only JPEG, PNG and PDF files are allowed")
		case errors.Is(err, filestorage.ErrTooLarge):
			return nil, apperrors.NewBadRequestError("File exceeds the upload size limit")
		case errors.Is(err, filestorage.ErrEmptyFile):
			return nil, apperrors.NewBadRequestError("File is empty")
		}
		return nil, err
	}

	doc := &models.Document{
		StudentID:    studentID,
		DocumentType: docType,
		FileName:     info.Filename,
		StorageKey:   info.Key,
		MimeType:     info.MimeType,
		FileSize:     info.FileSize,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if delErr := s.storage.DeleteFile(info.Key); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", info.Key).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("documentID", doc.ID).
		Str("type", string(docType)).Msg("Document uploaded")
	return doc, nil
}

// List returns the student's documents
func (s *DocumentService) List(ctx context.Context, studentID int64) (*dto.DocumentListResponse, error) {
	docs, err := s.documents.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return &dto.DocumentListResponse{Documents: docs}, nil
}

// Open returns a document of the student with the filesystem path of its content
func (s *DocumentService) Open(ctx context.Context, studentID, id int64) (*models.Document, string, error) {
	doc, err := s.documents.GetForStudent(ctx, id, studentID)
	if err != nil {
		return nil, "", err
	}
	path, err := s.storage.GetFullPath(doc.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("resolve document %d: %w", doc.ID, err)
	}
	return doc, path, nil
}

// Delete removes the record first; a file left behind is only logged
func (s *DocumentService) Delete(ctx context.Context, studentID, id int64) error {
	doc, err := s.documents.DeleteForStudent(ctx, id, studentID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteFile(doc.StorageKey); err != nil {
		s.logger.Warn().Err(err).Int64("documentID", doc.ID).Msg("Failed to delete document file")
	}
	return nil
}
