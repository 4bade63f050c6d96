package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
)

func newSavedFixture(t *testing.T) (*SavedScholarshipService, *memSaved) {
	t.Helper()
	store := newMemScholarships(
		scholarshipFor("Master Grant", models.DegreeMaster, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
		scholarshipFor("PhD Grant", models.DegreePhD, time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)),
	)
	profiles := newMemProfiles()
	require.NoError(t, profiles.Upsert(context.Background(), masterProfile(7)))
	saved := newMemSaved()
	svc := NewSavedScholarshipService(saved, store, profiles, nopLogger)
	svc.now = func() time.Time { return time.Date(2029, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, saved
}

func TestSavedScholarshipService_Save(t *testing.T) {
	svc, _ := newSavedFixture(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, saved.MatchScore)
	assert.Equal(t, models.TrackingSaved, saved.TrackingStatus)
	assert.Equal(t, 7, saved.EffectiveLeadTime())
	assert.Equal(t, []models.ChecklistTask{
		{Name: "Prepare Transcript"},
		{Name: "Prepare CV"},
		{Name: "Submit application"},
	}, saved.Checklist)
	assert.Equal(t, "Master Grant", saved.Scholarship.Title)

	_, err = svc.Save(ctx, 7, 1)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySaved)

	_, err = svc.Save(ctx, 7, 99)
	assert.ErrorIs(t, err, apperrors.ErrScholarshipNotFound)
}

func TestSavedScholarshipService_SaveWithoutProfileScoresZero(t *testing.T) {
	svc, _ := newSavedFixture(t)
	saved, err := svc.Save(context.Background(), 8, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.MatchScore)
}

func TestSavedScholarshipService_ListAndUnsave(t *testing.T) {
	svc, _ := newSavedFixture(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, 7, 1)
	require.NoError(t, err)
	_, err = svc.Save(ctx, 7, 2)
	require.NoError(t, err)

	list, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ScholarshipID, "newest first")

	require.NoError(t, svc.Unsave(ctx, 7, 1))
	assert.ErrorIs(t, svc.Unsave(ctx, 7, 1), apperrors.ErrSavedScholarshipNotFound)
}

func TestSavedScholarshipService_Update(t *testing.T) {
	svc, _ := newSavedFixture(t)
	ctx := context.Background()
	saved, err := svc.Save(ctx, 7, 1)
	require.NoError(t, err)

	deadline := time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)
	status := models.TrackingPreparing
	updated, err := svc.Update(ctx, 7, saved.ID, &dto.UpdateSavedScholarshipRequest{
		TrackingStatus:   &status,
		UserSetDeadline:  &deadline,
		ReminderLeadTime: ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingPreparing, updated.TrackingStatus)
	assert.Equal(t, deadline, *updated.UserSetDeadline)
	assert.Equal(t, 3, updated.EffectiveLeadTime())

	// lead time 0 is stored but behaves as the default
	updated, err = svc.Update(ctx, 7, saved.ID, &dto.UpdateSavedScholarshipRequest{ReminderLeadTime: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.EffectiveLeadTime())
	assert.Equal(t, models.TrackingPreparing, updated.TrackingStatus)

	_, err = svc.Update(ctx, 7, saved.ID, &dto.UpdateSavedScholarshipRequest{ReminderLeadTime: ptr(-1)})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.Update(ctx, 8, saved.ID, &dto.UpdateSavedScholarshipRequest{})
	assert.ErrorIs(t, err, apperrors.ErrSavedScholarshipNotFound, "other students cannot touch it")
}

func TestSavedScholarshipService_Milestones(t *testing.T) {
	svc, _ := newSavedFixture(t)
	ctx := context.Background()
	saved, err := svc.Save(ctx, 7, 1)
	require.NoError(t, err)

	target := time.Date(2029, 9, 1, 0, 0, 0, 0, time.UTC)
	ms, err := svc.AddMilestone(ctx, 7, saved.ID, &dto.AddMilestoneRequest{Title: "Request letters", TargetDate: target})
	require.NoError(t, err)
	require.Len(t, ms, 1)
	ms, err = svc.AddMilestone(ctx, 7, saved.ID, &dto.AddMilestoneRequest{Title: "Write essay", TargetDate: target})
	require.NoError(t, err)
	require.Len(t, ms, 2)

	m, err := svc.UpdateMilestone(ctx, 7, saved.ID, 1, &dto.UpdateMilestoneRequest{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, m.Completed)
	require.NotNil(t, m.CompletedAt)
	first := *m.CompletedAt

	svc.now = func() time.Time { return first.Add(24 * time.Hour) }
	m, err = svc.UpdateMilestone(ctx, 7, saved.ID, 1, &dto.UpdateMilestoneRequest{Completed: ptr(true), Title: ptr("Write SOP")})
	require.NoError(t, err)
	assert.Equal(t, first, *m.CompletedAt, "completedAt is set on first completion only")
	assert.Equal(t, "Write SOP", m.Title)

	_, err = svc.UpdateMilestone(ctx, 7, saved.ID, 2, &dto.UpdateMilestoneRequest{Completed: ptr(true)})
	assert.ErrorIs(t, err, apperrors.ErrMilestoneNotFound)
	_, err = svc.UpdateMilestone(ctx, 7, saved.ID, -1, &dto.UpdateMilestoneRequest{})
	assert.ErrorIs(t, err, apperrors.ErrMilestoneNotFound)

	_, err = svc.AddMilestone(ctx, 8, saved.ID, &dto.AddMilestoneRequest{Title: "x", TargetDate: target})
	assert.ErrorIs(t, err, apperrors.ErrSavedScholarshipNotFound)
}
