package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/ocr"
)

// StudentService manages student profiles
type StudentService struct {
	users    UserStore
	profiles ProfileStore
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(users UserStore, profiles ProfileStore, logger zerolog.Logger) *StudentService {
	return &StudentService{users: users, profiles: profiles, logger: logger}
}

// GetProfile returns the student's profile, or an empty one when none was saved yet
func (s *StudentService) GetProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, err
		}
		profile = &models.StudentProfile{
			UserID:           userID,
			AcademicHistory:  []models.AcademicRecord{},
			StudyPreferences: []models.StudyPreference{},
		}
	}
	profile.User = user
	return profile, nil
}

// UpdateProfile merges the supplied fields into the profile, recomputes its completion and saves it.
// Omitted fields keep their stored values.
func (s *StudentService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user := profile.User

	firstName, lastName := user.FirstName, user.LastName
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) != "" {
		firstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) != "" {
		lastName = strings.TrimSpace(*req.LastName)
	}
	if firstName != user.FirstName || lastName != user.LastName {
		if err := s.users.UpdateNames(ctx, userID, firstName, lastName); err != nil {
			return nil, err
		}
		user.FirstName, user.LastName = firstName, lastName
	}

	applyProfileUpdate(profile, req)
	profile.ProfileCompletion = profile.CompletionPercentage()

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int("completion", profile.ProfileCompletion).Msg("Student profile updated")
	return profile, nil
}

func applyProfileUpdate(p *models.StudentProfile, req *dto.UpdateProfileRequest) {
	if req.Nationality != nil {
		p.Nationality = req.Nationality
	}
	if req.CurrentLocation != nil {
		p.CurrentLocation = req.CurrentLocation
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = req.DateOfBirth
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.AcademicHistory != nil {
		history := make([]models.AcademicRecord, 0, len(req.AcademicHistory))
		for _, r := range req.AcademicHistory {
			history = append(history, models.AcademicRecord{
				Level:          r.Level,
				Institution:    r.Institution,
				Degree:         r.Degree,
				FieldOfStudy:   r.FieldOfStudy,
				GPA:            r.GPA,
				RawGrade:       r.RawGrade,
				GraduationYear: r.GraduationYear,
			})
		}
		p.AcademicHistory = history
	}
	if req.StudyPreferences != nil {
		prefs := make([]models.StudyPreference, 0, len(req.StudyPreferences))
		for _, r := range req.StudyPreferences {
			prefs = append(prefs, models.StudyPreference{
				Country:      r.Country,
				FieldOfStudy: r.FieldOfStudy,
				DegreeLevel:  r.DegreeLevel,
			})
		}
		p.StudyPreferences = prefs
	}
	if req.FundingNeed != nil {
		p.FundingNeed = *req.FundingNeed
	}
	if req.EnglishProficiencyLevel != nil {
		p.EnglishProficiencyLevel = req.EnglishProficiencyLevel
	}
	if req.StandardizedTests != nil {
		p.StandardizedTests = *req.StandardizedTests
	}
}

// ExtractFromText runs the OCR field heuristics over recognised document text
func (s *StudentService) ExtractFromText(text string) (*dto.OCRExtractResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewBadRequestError("text is required")
	}
	return &dto.OCRExtractResponse{Fields: ocr.ExtractFields(text)}, nil
}
