package dto

import (
	"time"

	"github.com/yigit/scholarpath/internal/app/models"
)

// UpdateSavedScholarshipRequest updates tracking state of a saved scholarship
type UpdateSavedScholarshipRequest struct {
	TrackingStatus   *models.TrackingStatus `json:"trackingStatus" binding:"omitempty,trackingstatus"`
	UserSetDeadline  *time.Time             `json:"userSetDeadline"`
	ReminderLeadTime *int                   `json:"reminderLeadTime" binding:"omitempty,gte=0,lte=365"`
	AppliedDate      *time.Time             `json:"appliedDate"`
}

// AddMilestoneRequest appends a milestone
type AddMilestoneRequest struct {
	Title      string    `json:"title" binding:"required"`
	TargetDate time.Time `json:"targetDate" binding:"required"`
}

// UpdateMilestoneRequest edits or completes a milestone
type UpdateMilestoneRequest struct {
	Title      *string    `json:"title" binding:"omitempty,min=1"`
	TargetDate *time.Time `json:"targetDate"`
	Completed  *bool      `json:"completed"`
}
