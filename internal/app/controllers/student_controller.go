package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/middleware"
)

const defaultMatchLimit = 20

// StudentController serves the student's own profile
type StudentController struct {
	studentService     StudentService
	scholarshipService ScholarshipService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService StudentService, scholarshipService ScholarshipService) *StudentController {
	return &StudentController{studentService: studentService, scholarshipService: scholarshipService}
}

// GetProfile returns the student's profile, empty if never filled in
// @Summary Get student profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.StudentProfile}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Router /student/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.studentService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// UpdateProfile upserts the student's profile
// @Summary Update student profile
// @Description Only the provided fields change. Completion percentage is recomputed.
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.StudentProfile}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /student/profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.studentService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, profile)
}

// ExtractOCR pulls profile fields out of recognised document text
// @Summary Extract profile fields from OCR text
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.OCRExtractRequest true "Recognised text"
// @Success 200 {object} dto.APIResponse{data=dto.OCRExtractResponse}
// @Failure 400 {object} dto.ErrorResponse "Empty text"
// @Router /student/ocr/extract [post]
func (c *StudentController) ExtractOCR(ctx *gin.Context) {
	var req dto.OCRExtractRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.studentService.ExtractFromText(req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// Matches ranks the whole catalogue for the student
// @Summary Ranked scholarship matches
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {object} dto.APIResponse{data=[]matching.Ranked}
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /student/matches [get]
func (c *StudentController) Matches(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limit := defaultMatchLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "limit must be a positive integer").WithField("limit"),
			))
			return
		}
		limit = n
	}

	ranked, err := c.scholarshipService.RankForStudent(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	respond(ctx, http.StatusOK, ranked)
}
