package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/dberrors"
	"github.com/yigit/scholarpath/internal/pkg/logger"
)

// StudentProfileRepository handles student profile database operations
type StudentProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentProfileRepository creates a new StudentProfileRepository
func NewStudentProfileRepository(db *pgxpool.Pool) *StudentProfileRepository {
	return &StudentProfileRepository{db: db, sb: statementBuilder()}
}

// GetByUserID returns the profile owned by userID
func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	sql, args, err := r.sb.Select(
		"id", "user_id", "nationality", "current_location", "date_of_birth", "phone",
		"academic_history", "study_preferences", "funding_need", "english_proficiency_level",
		"standardized_tests", "profile_completion", "created_at", "updated_at").
		From("student_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	p := &models.StudentProfile{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.UserID, &p.Nationality, &p.CurrentLocation, &p.DateOfBirth, &p.Phone,
		&p.AcademicHistory, &p.StudyPreferences, &p.FundingNeed, &p.EnglishProficiencyLevel,
		&p.StandardizedTests, &p.ProfileCompletion, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student profile")
		return nil, fmt.Errorf("error getting student profile: %w", err)
	}
	return p, nil
}

// CreateEmpty inserts a blank profile for a newly registered student
func (r *StudentProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Insert("student_profiles").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create profile query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating student profile: %w", err)
	}
	return nil
}

// Upsert writes every profile column, creating the row when missing
func (r *StudentProfileRepository) Upsert(ctx context.Context, p *models.StudentProfile) error {
	history, err := toJSONB(p.AcademicHistory)
	if err != nil {
		return err
	}
	prefs, err := toJSONB(p.StudyPreferences)
	if err != nil {
		return err
	}
	tests, err := toJSONB(p.StandardizedTests)
	if err != nil {
		return err
	}

	sql, args, err := r.sb.Insert("student_profiles").
		Columns("user_id", "nationality", "current_location", "date_of_birth", "phone",
			"academic_history", "study_preferences", "funding_need", "english_proficiency_level",
			"standardized_tests", "profile_completion", "updated_at").
		Values(p.UserID, p.Nationality, p.CurrentLocation, p.DateOfBirth, p.Phone,
			history, prefs, p.FundingNeed, p.EnglishProficiencyLevel,
			tests, p.ProfileCompletion, time.Now()).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			nationality = EXCLUDED.nationality,
			current_location = EXCLUDED.current_location,
			date_of_birth = EXCLUDED.date_of_birth,
			phone = EXCLUDED.phone,
			academic_history = EXCLUDED.academic_history,
			study_preferences = EXCLUDED.study_preferences,
			funding_need = EXCLUDED.funding_need,
			english_proficiency_level = EXCLUDED.english_proficiency_level,
			standardized_tests = EXCLUDED.standardized_tests,
			profile_completion = EXCLUDED.profile_completion,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error upserting student profile")
		return fmt.Errorf("error saving student profile: %w", err)
	}
	return nil
}
