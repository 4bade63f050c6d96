package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/matching"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/helpers"
	"github.com/yigit/scholarpath/internal/pkg/validation"
)

// ScholarshipService serves the public catalogue and the admin CRUD
type ScholarshipService struct {
	scholarships ScholarshipStore
	profiles     ProfileStore
	logger       zerolog.Logger
}

// NewScholarshipService creates a new ScholarshipService
func NewScholarshipService(scholarships ScholarshipStore, profiles ProfileStore, logger zerolog.Logger) *ScholarshipService {
	return &ScholarshipService{scholarships: scholarships, profiles: profiles, logger: logger}
}

// BuildFilter turns query parameters into a repository filter
func BuildFilter(req *dto.ScholarshipFilterRequest) (models.ScholarshipFilter, error) {
	filter := models.ScholarshipFilter{
		Country:     req.Country,
		DegreeLevel: models.DegreeLevel(req.DegreeLevel),
		Field:       req.Field,
		FundingType: models.FundingType(req.FundingType),
		Keyword:     req.Keyword,
	}

	before, err := helpers.ParseOptionalDate(req.DeadlineBefore)
	if err != nil {
		return filter, apperrors.NewBadRequestError("deadlineBefore must be RFC3339 or YYYY-MM-DD")
	}
	after, err := helpers.ParseOptionalDate(req.DeadlineAfter)
	if err != nil {
		return filter, apperrors.NewBadRequestError("deadlineAfter must be RFC3339 or YYYY-MM-DD")
	}
	filter.DeadlineBefore, filter.DeadlineAfter = before, after
	return filter, nil
}

// profileFor loads the profile used for scoring; a missing profile yields nil without error
func (s *ScholarshipService) profileFor(ctx context.Context, studentID *int64) (*models.StudentProfile, error) {
	if studentID == nil {
		return nil, nil
	}
	profile, err := s.profiles.GetByUserID(ctx, *studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// List returns one page of the catalogue. With a student whose profile exists, the page is
// ranked by match score instead of deadline.
func (s *ScholarshipService) List(ctx context.Context, req *dto.ScholarshipFilterRequest) (*dto.ScholarshipListResponse, error) {
	filter, err := BuildFilter(req)
	if err != nil {
		return nil, err
	}

	page, size := helpers.NormalizePage(req.Page, req.Size)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	list, err := s.scholarships.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.scholarships.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileFor(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ScholarshipResponse, 0, len(list))
	if profile != nil {
		for _, r := range matching.Rank(profile, list) {
			score := r.MatchScore
			items = append(items, dto.ScholarshipResponse{Scholarship: r.Scholarship, MatchScore: &score})
		}
	} else {
		for _, sch := range list {
			items = append(items, dto.ScholarshipResponse{Scholarship: sch})
		}
	}

	return &dto.ScholarshipListResponse{
		Scholarships: items,
		Pagination:   helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// Get returns one scholarship, counting the view, with a match score when a student profile exists
func (s *ScholarshipService) Get(ctx context.Context, id int64, studentID *int64) (*dto.ScholarshipResponse, error) {
	sch, err := s.scholarships.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ScholarshipResponse{Scholarship: sch}
	profile, err := s.profileFor(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		score := matching.Score(profile, sch)
		resp.MatchScore = &score
	}
	return resp, nil
}

// RankForStudent scores every scholarship for the student, best first
func (s *ScholarshipService) RankForStudent(ctx context.Context, studentID int64) ([]matching.Ranked, error) {
	profile, err := s.profiles.GetByUserID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	all, err := s.scholarships.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return matching.Rank(profile, all), nil
}

func validateScholarship(req *dto.ScholarshipRequest) error {
	if err := validation.ValidateGPARange(req.Eligibility.GPA); err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error()).
			WithDetails(map[string]interface{}{"field": "eligibilityCriteria.gpa"})
	}
	for _, level := range req.Eligibility.DegreeLevels {
		if !level.Valid() {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("invalid degree level %q", level))
		}
	}
	return nil
}

// AdminList returns the whole catalogue
func (s *ScholarshipService) AdminList(ctx context.Context) ([]*models.Scholarship, error) {
	return s.scholarships.ListAll(ctx)
}

// AdminGet returns a scholarship without counting a view
func (s *ScholarshipService) AdminGet(ctx context.Context, id int64) (*models.Scholarship, error) {
	return s.scholarships.GetByID(ctx, id)
}

// Create adds a scholarship authored by adminID
func (s *ScholarshipService) Create(ctx context.Context, adminID int64, req *dto.ScholarshipRequest) (*models.Scholarship, error) {
	if err := validateScholarship(req); err != nil {
		return nil, err
	}
	sch := req.ToModel()
	sch.CreatedBy = adminID
	if err := s.scholarships.Create(ctx, sch); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("scholarshipID", sch.ID).Int64("adminID", adminID).Msg("Scholarship created")
	return sch, nil
}

// Update replaces the editable fields of a scholarship
func (s *ScholarshipService) Update(ctx context.Context, id int64, req *dto.ScholarshipRequest) (*models.Scholarship, error) {
	if err := validateScholarship(req); err != nil {
		return nil, err
	}
	existing, err := s.scholarships.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sch := req.ToModel()
	sch.ID = id
	sch.CreatedBy = existing.CreatedBy
	if err := s.scholarships.Update(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// Delete removes a scholarship
func (s *ScholarshipService) Delete(ctx context.Context, id int64) error {
	if err := s.scholarships.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("scholarshipID", id).Msg("Scholarship deleted")
	return nil
}
