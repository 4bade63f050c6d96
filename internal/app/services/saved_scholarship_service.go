package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/matching"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
)

// SavedScholarshipService manages a student's tracked scholarships
type SavedScholarshipService struct {
	saved        SavedScholarshipStore
	scholarships ScholarshipStore
	profiles     ProfileStore
	logger       zerolog.Logger
	now          func() time.Time
}

// NewSavedScholarshipService creates a new SavedScholarshipService
func NewSavedScholarshipService(
	saved SavedScholarshipStore,
	scholarships ScholarshipStore,
	profiles ProfileStore,
	logger zerolog.Logger,
) *SavedScholarshipService {
	return &SavedScholarshipService{
		saved:        saved,
		scholarships: scholarships,
		profiles:     profiles,
		logger:       logger,
		now:          time.Now,
	}
}

// Save starts tracking a scholarship. The match score is computed once here and never refreshed.
func (s *SavedScholarshipService) Save(ctx context.Context, studentID, scholarshipID int64) (*models.SavedScholarship, error) {
	sch, err := s.scholarships.GetByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}

	score := 0
	profile, err := s.profiles.GetByUserID(ctx, studentID)
	switch {
	case err == nil:
		score = matching.Score(profile, sch)
	case !errors.Is(err, apperrors.ErrProfileNotFound):
		return nil, err
	}

	leadTime := models.DefaultReminderLeadTime
	saved := &models.SavedScholarship{
		StudentID:        studentID,
		ScholarshipID:    scholarshipID,
		MatchScore:       score,
		TrackingStatus:   models.TrackingSaved,
		ReminderLeadTime: &leadTime,
		Milestones:       []models.Milestone{},
		Checklist:        models.BuildChecklist(sch.RequiredDocuments),
	}
	if err := s.saved.Create(ctx, saved); err != nil {
		return nil, err
	}
	saved.Scholarship = sch

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("scholarshipID", scholarshipID).
		Int("matchScore", score).
		Msg("Scholarship saved")
	return saved, nil
}

// Unsave stops tracking a scholarship
func (s *SavedScholarshipService) Unsave(ctx context.Context, studentID, scholarshipID int64) error {
	return s.saved.DeleteByScholarship(ctx, studentID, scholarshipID)
}

// List returns the student's tracked scholarships, newest first
func (s *SavedScholarshipService) List(ctx context.Context, studentID int64) ([]*models.SavedScholarship, error) {
	return s.saved.ListByStudent(ctx, studentID)
}

// Update changes status, user-set deadline, reminder lead time and applied date.
// Omitted fields keep their stored values.
func (s *SavedScholarshipService) Update(ctx context.Context, studentID, savedID int64, req *dto.UpdateSavedScholarshipRequest) (*models.SavedScholarship, error) {
	saved, err := s.saved.GetForStudent(ctx, savedID, studentID)
	if err != nil {
		return nil, err
	}

	if req.TrackingStatus != nil {
		saved.TrackingStatus = *req.TrackingStatus
	}
	if req.UserSetDeadline != nil {
		saved.UserSetDeadline = req.UserSetDeadline
	}
	if req.ReminderLeadTime != nil {
		if *req.ReminderLeadTime < 0 {
			return nil, apperrors.NewBadRequestError("reminderLeadTime must not be negative")
		}
		saved.ReminderLeadTime = req.ReminderLeadTime
	}
	if req.AppliedDate != nil {
		saved.AppliedDate = req.AppliedDate
	}

	if err := s.saved.UpdateTracking(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// AddMilestone appends a milestone and returns the full list
func (s *SavedScholarshipService) AddMilestone(ctx context.Context, studentID, savedID int64, req *dto.AddMilestoneRequest) ([]models.Milestone, error) {
	return s.saved.MutateMilestones(ctx, savedID, studentID, func(ms []models.Milestone) ([]models.Milestone, error) {
		return append(ms, models.Milestone{Title: req.Title, TargetDate: req.TargetDate}), nil
	})
}

// UpdateMilestone edits the milestone at idx. completedAt is stamped on the first completion only.
func (s *SavedScholarshipService) UpdateMilestone(ctx context.Context, studentID, savedID int64, idx int, req *dto.UpdateMilestoneRequest) (*models.Milestone, error) {
	var updated models.Milestone
	_, err := s.saved.MutateMilestones(ctx, savedID, studentID, func(ms []models.Milestone) ([]models.Milestone, error) {
		if idx < 0 || idx >= len(ms) {
			return nil, apperrors.ErrMilestoneNotFound
		}
		m := &ms[idx]
		if req.Completed != nil {
			m.Completed = *req.Completed
			if m.Completed && m.CompletedAt == nil {
				now := s.now()
				m.CompletedAt = &now
			}
		}
		if req.Title != nil && *req.Title != "" {
			m.Title = *req.Title
		}
		if req.TargetDate != nil {
			m.TargetDate = *req.TargetDate
		}
		updated = *m
		return ms, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
