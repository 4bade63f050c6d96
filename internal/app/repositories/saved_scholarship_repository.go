package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/db"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/dberrors"
	"github.com/yigit/scholarpath/internal/pkg/logger"
)

var savedColumns = []string{
	"ss.id", "ss.student_id", "ss.scholarship_id", "ss.match_score", "ss.tracking_status",
	"ss.saved_at", "ss.applied_date", "ss.user_set_deadline", "ss.reminder_lead_time",
	"ss.milestones", "ss.checklist", "ss.created_at", "ss.updated_at",
}

// MilestoneMutation edits a milestone list in place of the stored one
type MilestoneMutation func(milestones []models.Milestone) ([]models.Milestone, error)

// SavedScholarshipRepository handles tracked scholarship database operations
type SavedScholarshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSavedScholarshipRepository creates a new SavedScholarshipRepository
func NewSavedScholarshipRepository(db *pgxpool.Pool) *SavedScholarshipRepository {
	return &SavedScholarshipRepository{db: db, sb: statementBuilder()}
}

func scanSaved(row pgx.Row, extra ...interface{}) (*models.SavedScholarship, error) {
	s := &models.SavedScholarship{}
	dest := []interface{}{
		&s.ID, &s.StudentID, &s.ScholarshipID, &s.MatchScore, &s.TrackingStatus,
		&s.SavedAt, &s.AppliedDate, &s.UserSetDeadline, &s.ReminderLeadTime,
		&s.Milestones, &s.Checklist, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return s, nil
}

// Create stores a new tracked scholarship; a second save of the same pair is ErrAlreadySaved
func (r *SavedScholarshipRepository) Create(ctx context.Context, s *models.SavedScholarship) error {
	checklist, err := toJSONB(s.Checklist)
	if err != nil {
		return err
	}
	milestones, err := toJSONB(s.Milestones)
	if err != nil {
		return err
	}

	sql, args, err := r.sb.Insert("saved_scholarships").
		Columns("student_id", "scholarship_id", "match_score", "tracking_status",
			"reminder_lead_time", "milestones", "checklist").
		Values(s.StudentID, s.ScholarshipID, s.MatchScore, s.TrackingStatus,
			s.ReminderLeadTime, milestones, checklist).
		Suffix("RETURNING id, saved_at, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save scholarship query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.SavedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadySaved
		}
		logger.Error().Err(err).Int64("studentID", s.StudentID).Int64("scholarshipID", s.ScholarshipID).
			Msg("Error saving scholarship")
		return fmt.Errorf("error saving scholarship: %w", err)
	}
	return nil
}

// DeleteByScholarship removes the student's tracked entry for scholarshipID
func (r *SavedScholarshipRepository) DeleteByScholarship(ctx context.Context, studentID, scholarshipID int64) error {
	sql, args, err := r.sb.Delete("saved_scholarships").
		Where(squirrel.Eq{"student_id": studentID, "scholarship_id": scholarshipID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unsave query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing saved scholarship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSavedScholarshipNotFound
	}
	return nil
}

// ListByStudent returns the student's tracked scholarships, newest first, with the scholarship attached
func (r *SavedScholarshipRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.SavedScholarship, error) {
	cols := append(append([]string{}, savedColumns...), prefixed("s.", scholarshipColumns)...)
	sql, args, err := r.sb.Select(cols...).
		From("saved_scholarships ss").
		Join("scholarships s ON s.id = ss.scholarship_id").
		Where(squirrel.Eq{"ss.student_id": studentID}).
		OrderBy("ss.saved_at DESC", "ss.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list saved query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error listing saved scholarships")
		return nil, fmt.Errorf("error listing saved scholarships: %w", err)
	}
	defer rows.Close()

	list := []*models.SavedScholarship{}
	for rows.Next() {
		sch := &models.Scholarship{}
		var createdBy *int64
		saved, err := scanSaved(rows,
			&sch.ID, &sch.Title, &sch.Provider, &sch.Description, &sch.Eligibility, &sch.Deadline,
			&sch.FundingType, &sch.AwardValue, &sch.ApplicationFee, &sch.RequiredDocuments, &sch.OfficialURL,
			&sch.Country, &sch.University, &createdBy, &sch.TrustScore, &sch.IsVerified, &sch.Tags, &sch.Views,
			&sch.Applications, &sch.CreatedAt, &sch.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning saved scholarship row: %w", err)
		}
		if createdBy != nil {
			sch.CreatedBy = *createdBy
		}
		saved.Scholarship = sch
		list = append(list, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved scholarship rows: %w", err)
	}
	return list, nil
}

// GetForStudent returns one tracked entry owned by studentID
func (r *SavedScholarshipRepository) GetForStudent(ctx context.Context, id, studentID int64) (*models.SavedScholarship, error) {
	sql, args, err := r.sb.Select(savedColumns...).
		From("saved_scholarships ss").
		Where(squirrel.Eq{"ss.id": id, "ss.student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get saved query: %w", err)
	}

	s, err := scanSaved(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSavedScholarshipNotFound
		}
		return nil, fmt.Errorf("error getting saved scholarship: %w", err)
	}
	return s, nil
}

// UpdateTracking writes status, user-set deadline, lead time and applied date
func (r *SavedScholarshipRepository) UpdateTracking(ctx context.Context, s *models.SavedScholarship) error {
	sql, args, err := r.sb.Update("saved_scholarships").
		SetMap(map[string]interface{}{
			"tracking_status":    s.TrackingStatus,
			"user_set_deadline":  s.UserSetDeadline,
			"reminder_lead_time": s.ReminderLeadTime,
			"applied_date":       s.AppliedDate,
			"updated_at":         time.Now(),
		}).
		Where(squirrel.Eq{"id": s.ID, "student_id": s.StudentID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update saved query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrSavedScholarshipNotFound
		}
		return fmt.Errorf("error updating saved scholarship: %w", err)
	}
	return nil
}

// MutateMilestones applies fn to the stored milestones under a row lock and persists the result
func (r *SavedScholarshipRepository) MutateMilestones(ctx context.Context, id, studentID int64, fn MilestoneMutation) ([]models.Milestone, error) {
	var result []models.Milestone
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("milestones").
			From("saved_scholarships").
			Where(squirrel.Eq{"id": id, "student_id": studentID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock milestones query: %w", err)
		}

		var current []models.Milestone
		if err := tx.QueryRow(ctx, sql, args...).Scan(&current); err != nil {
			if dberrors.IsNoRows(err) {
				return apperrors.ErrSavedScholarshipNotFound
			}
			return fmt.Errorf("error reading milestones: %w", err)
		}

		updated, err := fn(current)
		if err != nil {
			return err
		}
		encoded, err := toJSONB(updated)
		if err != nil {
			return err
		}

		sql, args, err = r.sb.Update("saved_scholarships").
			Set("milestones", encoded).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update milestones query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error updating milestones: %w", err)
		}
		result = updated
		return nil
	})
	return result, err
}

// ListDeadlineCandidates returns every tracked scholarship carrying a user-set deadline,
// joined with the scholarship title and the owning student's contact details
func (r *SavedScholarshipRepository) ListDeadlineCandidates(ctx context.Context) ([]*models.DeadlineCandidate, error) {
	sql, args, err := r.sb.Select(
		"ss.id", "ss.student_id", "ss.scholarship_id", "s.title", "ss.user_set_deadline",
		"ss.reminder_lead_time", "u.email", "u.first_name").
		From("saved_scholarships ss").
		Join("scholarships s ON s.id = ss.scholarship_id").
		Join("users u ON u.id = ss.student_id").
		Where(squirrel.NotEq{"ss.user_set_deadline": nil}).
		Where(squirrel.Eq{"u.deleted_at": nil}).
		OrderBy("ss.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deadline candidates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying deadline candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*models.DeadlineCandidate
	for rows.Next() {
		c := &models.DeadlineCandidate{}
		if err := rows.Scan(&c.SavedScholarshipID, &c.StudentID, &c.ScholarshipID, &c.ScholarshipTitle,
			&c.Deadline, &c.ReminderLeadTime, &c.Email, &c.FirstName); err != nil {
			return nil, fmt.Errorf("error scanning deadline candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deadline candidates: %w", err)
	}
	return candidates, nil
}

func prefixed(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return out
}
