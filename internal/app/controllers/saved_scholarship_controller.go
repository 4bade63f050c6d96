package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/middleware"
)

// SavedScholarshipController serves a student's application tracker
type SavedScholarshipController struct {
	savedService SavedScholarshipService
}

// NewSavedScholarshipController creates a new SavedScholarshipController
func NewSavedScholarshipController(savedService SavedScholarshipService) *SavedScholarshipController {
	return &SavedScholarshipController{savedService: savedService}
}

// Save bookmarks a scholarship for the student
// @Summary Save scholarship
// @Description Stores the current match score and a checklist built from the required documents.
// @Tags saved
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 201 {object} dto.APIResponse{data=models.SavedScholarship}
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Failure 409 {object} dto.ErrorResponse "Already saved"
// @Router /scholarships/{id}/save [post]
func (c *SavedScholarshipController) Save(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	scholarshipID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	saved, err := c.savedService.Save(ctx.Request.Context(), studentID, scholarshipID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, saved)
}

// Unsave removes a bookmark
// @Summary Unsave scholarship
// @Tags saved
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 204 "Removed"
// @Failure 404 {object} dto.ErrorResponse "Not saved"
// @Router /scholarships/{id}/save [delete]
func (c *SavedScholarshipController) Unsave(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	scholarshipID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.savedService.Unsave(ctx.Request.Context(), studentID, scholarshipID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// List returns the student's saved scholarships, newest first
// @Summary List saved scholarships
// @Tags saved
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SavedScholarship}
// @Router /scholarships/saved [get]
func (c *SavedScholarshipController) List(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	list, err := c.savedService.List(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, list)
}

// Update changes tracking status, personal deadline or reminder lead time
// @Summary Update saved scholarship
// @Tags saved
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param savedId path int true "Saved scholarship ID"
// @Param request body dto.UpdateSavedScholarshipRequest true "Tracking fields"
// @Success 200 {object} dto.APIResponse{data=models.SavedScholarship}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Saved scholarship not found"
// @Router /scholarships/saved/{savedId} [put]
func (c *SavedScholarshipController) Update(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	savedID, ok := parseIDParam(ctx, "savedId")
	if !ok {
		return
	}
	var req dto.UpdateSavedScholarshipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	saved, err := c.savedService.Update(ctx.Request.Context(), studentID, savedID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, saved)
}

// AddMilestone appends a milestone
// @Summary Add milestone
// @Tags saved
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param savedId path int true "Saved scholarship ID"
// @Param request body dto.AddMilestoneRequest true "Milestone"
// @Success 201 {object} dto.APIResponse{data=[]models.Milestone}
// @Failure 404 {object} dto.ErrorResponse "Saved scholarship not found"
// @Router /scholarships/saved/{savedId}/milestones [post]
func (c *SavedScholarshipController) AddMilestone(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	savedID, ok := parseIDParam(ctx, "savedId")
	if !ok {
		return
	}
	var req dto.AddMilestoneRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	milestones, err := c.savedService.AddMilestone(ctx.Request.Context(), studentID, savedID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, milestones)
}

// UpdateMilestone edits or completes the milestone at idx
// @Summary Update milestone
// @Tags saved
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param savedId path int true "Saved scholarship ID"
// @Param idx path int true "Milestone index, starting at 0"
// @Param request body dto.UpdateMilestoneRequest true "Milestone fields"
// @Success 200 {object} dto.APIResponse{data=models.Milestone}
// @Failure 404 {object} dto.ErrorResponse "Milestone not found"
// @Router /scholarships/saved/{savedId}/milestones/{idx} [put]
func (c *SavedScholarshipController) UpdateMilestone(ctx *gin.Context) {
	studentID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	savedID, ok := parseIDParam(ctx, "savedId")
	if !ok {
		return
	}
	idx, err := strconv.Atoi(ctx.Param("idx"))
	if err != nil || idx < 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid idx").WithField("idx"),
		))
		return
	}
	var req dto.UpdateMilestoneRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	milestone, err := c.savedService.UpdateMilestone(ctx.Request.Context(), studentID, savedID, idx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, milestone)
}
