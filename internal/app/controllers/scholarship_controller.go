package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/middleware"
)

// ScholarshipController serves the public catalogue and its admin CRUD
type ScholarshipController struct {
	scholarshipService ScholarshipService
}

// NewScholarshipController creates a new ScholarshipController
func NewScholarshipController(scholarshipService ScholarshipService) *ScholarshipController {
	return &ScholarshipController{scholarshipService: scholarshipService}
}

// List returns a filtered page of scholarships
// @Summary List scholarships
// @Description With studentId the page is ordered by match score and each item carries matchScore.
// @Tags scholarships
// @Produce json
// @Param country query string false "Country"
// @Param degreeLevel query string false "Degree level" Enums(undergraduate, master, phd, postdoc)
// @Param field query string false "Field of study"
// @Param fundingType query string false "Funding type" Enums(full, partial, other)
// @Param deadlineBefore query string false "Deadline on or before (YYYY-MM-DD or RFC3339)"
// @Param deadlineAfter query string false "Deadline on or after (YYYY-MM-DD or RFC3339)"
// @Param keyword query string false "Matches title, description or provider"
// @Param studentId query int false "Student to score against"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /scholarships [get]
func (c *ScholarshipController) List(ctx *gin.Context) {
	var req dto.ScholarshipFilterRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	resp, err := c.scholarshipService.List(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

type studentQuery struct {
	StudentID *int64 `form:"studentId" binding:"omitempty,min=1"`
}

// Get returns one scholarship and counts the view
// @Summary Get scholarship
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Param studentId query int false "Student to score against"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id} [get]
func (c *ScholarshipController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var q studentQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}

	resp, err := c.scholarshipService.Get(ctx.Request.Context(), id, q.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// AdminList returns every scholarship
// @Summary List all scholarships (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Scholarship}
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Router /admin/scholarships [get]
func (c *ScholarshipController) AdminList(ctx *gin.Context) {
	list, err := c.scholarshipService.AdminList(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// AdminGet returns one scholarship without counting a view
// @Summary Get scholarship (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=models.Scholarship}
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /admin/scholarships/{id} [get]
func (c *ScholarshipController) AdminGet(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	sch, err := c.scholarshipService.AdminGet(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, sch)
}

// Create adds a scholarship
// @Summary Create scholarship (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ScholarshipRequest true "Scholarship"
// @Success 201 {object} dto.APIResponse{data=models.Scholarship}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Router /admin/scholarships [post]
func (c *ScholarshipController) Create(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req dto.ScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sch, err := c.scholarshipService.Create(ctx.Request.Context(), adminID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, sch)
}

// Update replaces a scholarship
// @Summary Update scholarship (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Param request body dto.ScholarshipRequest true "Scholarship"
// @Success 200 {object} dto.APIResponse{data=models.Scholarship}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /admin/scholarships/{id} [put]
func (c *ScholarshipController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sch, err := c.scholarshipService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, sch)
}

// Delete removes a scholarship
// @Summary Delete scholarship (admin)
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /admin/scholarships/{id} [delete]
func (c *ScholarshipController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scholarshipService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
