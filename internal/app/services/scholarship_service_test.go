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

func scholarshipFor(title string, level models.DegreeLevel, deadline time.Time) *models.Scholarship {
	return &models.Scholarship{
		Title:             title,
		Provider:          "Provider",
		Country:           "Germany",
		FundingType:       models.FundingFull,
		Deadline:          deadline,
		RequiredDocuments: []string{"Transcript", "CV"},
		Eligibility:       models.EligibilityCriteria{DegreeLevels: []models.DegreeLevel{level}},
	}
}

func masterProfile(userID int64) *models.StudentProfile {
	return &models.StudentProfile{
		UserID: userID,
		StudyPreferences: []models.StudyPreference{
			{Country: "Germany", FieldOfStudy: "Computer Science", DegreeLevel: models.DegreeMaster},
		},
	}
}

func newScholarshipFixture(t *testing.T) (*ScholarshipService, *memScholarships, *memProfiles) {
	t.Helper()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newMemScholarships(
		scholarshipFor("PhD Grant", models.DegreePhD, base),
		scholarshipFor("Master Grant", models.DegreeMaster, base.AddDate(0, 1, 0)),
	)
	profiles := newMemProfiles()
	require.NoError(t, profiles.Upsert(context.Background(), masterProfile(7)))
	return NewScholarshipService(store, profiles, nopLogger), store, profiles
}

func TestScholarshipService_ListByDeadlineWithoutStudent(t *testing.T) {
	svc, _, _ := newScholarshipFixture(t)

	resp, err := svc.List(context.Background(), &dto.ScholarshipFilterRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Scholarships, 2)
	assert.Equal(t, "PhD Grant", resp.Scholarships[0].Title)
	assert.Nil(t, resp.Scholarships[0].MatchScore)
	assert.Equal(t, int64(2), resp.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Pagination.TotalPages)
	assert.Equal(t, 20, resp.Pagination.PageSize)
}

func TestScholarshipService_ListRankedForStudent(t *testing.T) {
	svc, _, _ := newScholarshipFixture(t)

	resp, err := svc.List(context.Background(), &dto.ScholarshipFilterRequest{StudentID: ptr(int64(7))})
	require.NoError(t, err)
	require.Len(t, resp.Scholarships, 2)
	assert.Equal(t, "Master Grant", resp.Scholarships[0].Title)
	assert.Equal(t, 100, *resp.Scholarships[0].MatchScore)
	assert.Equal(t, 45, *resp.Scholarships[1].MatchScore)

	// a student without a profile gets the plain listing
	resp, err = svc.List(context.Background(), &dto.ScholarshipFilterRequest{StudentID: ptr(int64(8))})
	require.NoError(t, err)
	assert.Nil(t, resp.Scholarships[0].MatchScore)
}

func TestScholarshipService_ListRejectsBadDate(t *testing.T) {
	svc, _, _ := newScholarshipFixture(t)
	_, err := svc.List(context.Background(), &dto.ScholarshipFilterRequest{DeadlineBefore: "next week"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestBuildFilter(t *testing.T) {
	f, err := BuildFilter(&dto.ScholarshipFilterRequest{
		Country:       "Germany",
		DegreeLevel:   "master",
		DeadlineAfter: "2030-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DegreeMaster, f.DegreeLevel)
	require.NotNil(t, f.DeadlineAfter)
	assert.Equal(t, time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC), f.DeadlineAfter.UTC())
	assert.Nil(t, f.DeadlineBefore)
}

func TestScholarshipService_GetCountsViewsAndScores(t *testing.T) {
	svc, store, _ := newScholarshipFixture(t)
	ctx := context.Background()

	resp, err := svc.Get(ctx, 2, ptr(int64(7)))
	require.NoError(t, err)
	assert.Equal(t, 100, *resp.MatchScore)

	_, err = svc.Get(ctx, 2, nil)
	require.NoError(t, err)
	sch, _ := store.GetByID(ctx, 2)
	assert.Equal(t, 2, sch.Views)

	_, err = svc.Get(ctx, 99, nil)
	assert.ErrorIs(t, err, apperrors.ErrScholarshipNotFound)
}

func TestScholarshipService_RankForStudent(t *testing.T) {
	svc, _, _ := newScholarshipFixture(t)

	ranked, err := svc.RankForStudent(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Master Grant", ranked[0].Scholarship.Title)

	_, err = svc.RankForStudent(context.Background(), 8)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func validScholarshipRequest() *dto.ScholarshipRequest {
	return &dto.ScholarshipRequest{
		Title:       "New Grant",
		Provider:    "DAAD",
		Description: "Fully funded",
		Eligibility: dto.EligibilityCriteriaRequest{
			DegreeLevels: []models.DegreeLevel{models.DegreeMaster},
			GPA:          &models.GPARange{Min: ptr(3.0), Max: ptr(4.0)},
		},
		Deadline:    time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC),
		FundingType: models.FundingFull,
		OfficialURL: "https://www.daad.de",
		Country:     "Germany",
	}
}

func TestScholarshipService_AdminCRUD(t *testing.T) {
	svc, _, _ := newScholarshipFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, validScholarshipRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.CreatedBy)
	assert.Equal(t, []string{}, created.RequiredDocuments)

	req := validScholarshipRequest()
	req.Title = "Renamed Grant"
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Grant", updated.Title)
	assert.Equal(t, int64(1), updated.CreatedBy)

	got, err := svc.AdminGet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Views)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), apperrors.ErrScholarshipNotFound)

	_, err = svc.Update(ctx, 404, validScholarshipRequest())
	assert.ErrorIs(t, err, apperrors.ErrScholarshipNotFound)
}

func TestScholarshipService_CreateValidatesGPA(t *testing.T) {
	svc, _, _ := newScholarshipFixture(t)

	req := validScholarshipRequest()
	req.Eligibility.GPA = &models.GPARange{Min: ptr(3.5), Max: ptr(3.0)}
	_, err := svc.Create(context.Background(), 1, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req.Eligibility.GPA = &models.GPARange{Max: ptr(5.0)}
	_, err = svc.Create(context.Background(), 1, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
