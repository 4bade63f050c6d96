package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"scholarship missing", apperrors.ErrScholarshipNotFound, 404, dto.ErrorCodeResourceNotFound, "Scholarship not found"},
		{"wrapped", fmt.Errorf("ctx: %w", apperrors.ErrAlreadySaved), 409, dto.ErrorCodeResourceAlreadyExists, "Scholarship already saved"},
		{"custom message", apperrors.NewBadRequestError("deadlineBefore is malformed"), 400, dto.ErrorCodeInvalidRequest, "deadlineBefore is malformed"},
		{"disabled", apperrors.ErrAccountDisabled, 403, dto.ErrorCodeAccountDisabled, "Account is disabled"},
		{"unknown", fmt.Errorf("boom"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.message, detail.Message)
		})
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	m := NewAuthMiddleware(jwtSvc)

	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwtSvc
}

func TestJWTAuthAndRoles(t *testing.T) {
	r, jwtSvc := newAuthRouter(t)
	student := &models.User{ID: 5, Email: "s@example.com", Role: models.RoleStudent}
	admin := &models.User{ID: 1, Email: "a@example.com", Role: models.RoleAdmin}
	studentToken, _, err := jwtSvc.GenerateAccessToken(student)
	require.NoError(t, err)
	adminToken, _, err := jwtSvc.GenerateAccessToken(admin)
	require.NoError(t, err)
	verifyToken, err := jwtSvc.GeneratePurposeToken(student, auth.PurposeVerifyEmail)
	require.NoError(t, err)

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/me", "Bearer "+studentToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":5,"role":"student"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, do("/me", studentToken).Code, "raw token accepted")
	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer "+verifyToken).Code, "purpose tokens are not access tokens")

	assert.Equal(t, http.StatusForbidden, do("/admin", "Bearer "+studentToken).Code)
	assert.Equal(t, http.StatusNoContent, do("/admin", "Bearer "+adminToken).Code)
}

func TestBindJSONUsesCustomRules(t *testing.T) {
	require.NoError(t, RegisterValidators())

	r := gin.New()
	r.POST("/prefs", func(c *gin.Context) {
		var req dto.StudyPreferenceRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/prefs", bytes.NewBufferString(body)))
		return w
	}

	assert.Equal(t, http.StatusNoContent, post(`{"country":"DE","fieldOfStudy":"CS","degreeLevel":"master"}`).Code)

	w := post(`{"country":"DE","fieldOfStudy":"CS","degreeLevel":"bachelor"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "degreeLevel", detail.Field)

	w = post(`{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, decodeError(t, w).Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"requestId":"req-1"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
