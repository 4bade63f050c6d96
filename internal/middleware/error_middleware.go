package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first errors.Is match wins
var errorMappings = []errorMapping{
	{apperrors.ErrScholarshipNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Scholarship not found"},
	{apperrors.ErrSavedScholarshipNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Saved scholarship not found"},
	{apperrors.ErrMilestoneNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Milestone not found"},
	{apperrors.ErrProfileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student profile not found"},
	{apperrors.ErrNotificationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Notification not found"},
	{apperrors.ErrDocumentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Document not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrAlreadySaved, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Scholarship already saved"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid or expired token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Bad request"},
}

// HandleAPIError writes the response matching err. Unknown errors become 500 and are logged.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.message)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			if custom.Message != "" {
				detail.Message = custom.Message
			}
			if custom.Details != nil {
				detail.Details = custom.Details
			}
		}
		c.JSON(m.status, dto.NewErrorAPIResponse(detail))
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorAPIResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}
