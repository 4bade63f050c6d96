// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/matching"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/middleware"
)

// AuthService is what AuthController needs from the auth service
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context, userID int64) (*dto.MeResponse, error)
}

// StudentService is what StudentController needs from the student service
type StudentService interface {
	GetProfile(ctx context.Context, userID int64) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.StudentProfile, error)
	ExtractFromText(text string) (*dto.OCRExtractResponse, error)
}

// ScholarshipService is what ScholarshipController needs from the scholarship service
type ScholarshipService interface {
	List(ctx context.Context, req *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error)
	Get(ctx context.Context, id int64, studentID *int64) (*dto.ScholarshipResponse, error)
	RankForStudent(ctx context.Context, studentID int64) ([]matching.Ranked, error)
	AdminList(ctx context.Context) ([]*models.Scholarship, error)
	AdminGet(ctx context.Context, id int64) (*models.Scholarship, error)
	Create(ctx context.Context, adminID int64, req *dto.ScholarshipRequest) (*models.Scholarship, error)
	Update(ctx context.Context, id int64, req *dto.ScholarshipRequest) (*models.Scholarship, error)
	Delete(ctx context.Context, id int64) error
}

// SavedScholarshipService is what SavedScholarshipController needs from the tracking service
type SavedScholarshipService interface {
	Save(ctx context.Context, studentID, scholarshipID int64) (*models.SavedScholarship, error)
	Unsave(ctx context.Context, studentID, scholarshipID int64) error
	List(ctx context.Context, studentID int64) ([]*models.SavedScholarship, error)
	Update(ctx context.Context, studentID, savedID int64, req *dto.UpdateSavedScholarshipRequest) (*models.SavedScholarship, error)
	AddMilestone(ctx context.Context, studentID, savedID int64, req *dto.AddMilestoneRequest) ([]models.Milestone, error)
	UpdateMilestone(ctx context.Context, studentID, savedID int64, idx int, req *dto.UpdateMilestoneRequest) (*models.Milestone, error)
}

// NotificationService is what NotificationController needs from the notification service
type NotificationService interface {
	List(ctx context.Context, userID int64) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (*dto.MarkAllReadResponse, error)
}

// DocumentService is what DocumentController needs from the document service
type DocumentService interface {
	Upload(ctx context.Context, studentID int64, docType models.DocumentType, fileHeader *multipart.FileHeader) (*models.Document, error)
	List(ctx context.Context, studentID int64) (*dto.DocumentListResponse, error)
	Open(ctx context.Context, studentID, id int64) (*models.Document, string, error)
	Delete(ctx context.Context, studentID, id int64) error
}

// parseIDParam reads a positive integer path parameter, writing a 400 when it is malformed
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name).
			WithField(name).
			WithDetails(name + " must be a positive integer")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(detail))
		return 0, false
	}
	return id, true
}

// currentUserID returns the authenticated user, writing a 401 when the context has none
func currentUserID(ctx *gin.Context) (int64, bool) {
	id, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorAPIResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated"),
		))
		return 0, false
	}
	return id, true
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewSuccessResponse(data))
}
