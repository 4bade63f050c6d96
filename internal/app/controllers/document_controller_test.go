package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
)

type stubDocuments struct {
	uploadedType models.DocumentType
	uploadedName string
	path         string
}

func (s *stubDocuments) Upload(_ context.Context, studentID int64, docType models.DocumentType, fh *multipart.FileHeader) (*models.Document, error) {
	s.uploadedType = docType
	s.uploadedName = fh.Filename
	return &models.Document{ID: 9, StudentID: studentID, DocumentType: docType, FileName: fh.Filename}, nil
}

func (s *stubDocuments) List(context.Context, int64) (*dto.DocumentListResponse, error) {
	return &dto.DocumentListResponse{Documents: []*models.Document{}}, nil
}

func (s *stubDocuments) Open(_ context.Context, studentID, id int64) (*models.Document, string, error) {
	if id != 9 {
		return nil, "", apperrors.ErrDocumentNotFound
	}
	return &models.Document{ID: 9, StudentID: studentID, FileName: "cv.pdf", MimeType: "application/pdf"}, s.path, nil
}

func (s *stubDocuments) Delete(_ context.Context, _, id int64) error {
	if id != 9 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

func newDocumentRouter(svc *stubDocuments) *gin.Engine {
	r := gin.New()
	dc := NewDocumentController(svc)
	g := r.Group("/student/documents", asUser(5))
	g.POST("", dc.Upload)
	g.GET("", dc.List)
	g.GET("/:id/file", dc.Download)
	g.DELETE("/:id", dc.Delete)
	return r
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/student/documents", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func errorField(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return env.Error.Field
}

func TestDocumentRoutes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stored.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	svc := &stubDocuments{path: path}
	r := newDocumentRouter(svc)

	t.Run("upload", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, map[string]string{"documentType": "cv"}, "cv.pdf", []byte("%PDF-1.4")))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, models.DocumentCV, svc.uploadedType)
		assert.Equal(t, "cv.pdf", svc.uploadedName)
	})

	t.Run("upload with unknown type", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, map[string]string{"documentType": "passport"}, "p.pdf", []byte("%PDF")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "documentType", errorField(t, w))
	})

	t.Run("upload without file", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, map[string]string{"documentType": "cv"}, "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "file", errorField(t, w))
	})

	t.Run("list", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/student/documents", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.DocumentListResponse
		decodeData(t, w, &resp)
		assert.NotNil(t, resp.Documents)
	})

	t.Run("download", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/student/documents/9/file", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "%PDF-1.4", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "cv.pdf")
	})

	t.Run("download missing", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/student/documents/3/file", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/student/documents/9", "").Code)
		assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/student/documents/4", "").Code)
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/student/documents/x", "").Code)
	})
}
