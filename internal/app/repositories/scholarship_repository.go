package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/dberrors"
	"github.com/yigit/scholarpath/internal/pkg/logger"
)

var scholarshipColumns = []string{
	"id", "title", "provider", "description", "eligibility", "deadline", "funding_type",
	"award_value", "application_fee", "required_documents", "official_url", "country",
	"university", "created_by", "trust_score", "is_verified", "tags", "views", "applications",
	"created_at", "updated_at",
}

// ScholarshipRepository handles scholarship database operations
type ScholarshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScholarshipRepository creates a new ScholarshipRepository
func NewScholarshipRepository(db *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{db: db, sb: statementBuilder()}
}

func scanScholarship(row pgx.Row) (*models.Scholarship, error) {
	s := &models.Scholarship{}
	var createdBy *int64
	err := row.Scan(&s.ID, &s.Title, &s.Provider, &s.Description, &s.Eligibility, &s.Deadline,
		&s.FundingType, &s.AwardValue, &s.ApplicationFee, &s.RequiredDocuments, &s.OfficialURL,
		&s.Country, &s.University, &createdBy, &s.TrustScore, &s.IsVerified, &s.Tags, &s.Views,
		&s.Applications, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}
	return s, nil
}

// containsJSON matches rows whose JSONB array at path holds value
func containsJSON(path string, value string) (squirrel.Sqlizer, error) {
	b, err := json.Marshal([]string{value})
	if err != nil {
		return nil, err
	}
	return squirrel.Expr(path+" @> ?::jsonb", string(b)), nil
}

// applyFilter adds the WHERE clauses for filter; shared by list and count
func applyFilter(q squirrel.SelectBuilder, filter models.ScholarshipFilter) (squirrel.SelectBuilder, error) {
	if filter.Country != "" {
		q = q.Where(squirrel.Eq{"country": filter.Country})
	}
	if filter.DegreeLevel != "" {
		cond, err := containsJSON("eligibility->'degreeLevel'", string(filter.DegreeLevel))
		if err != nil {
			return q, err
		}
		q = q.Where(cond)
	}
	if filter.Field != "" {
		cond, err := containsJSON("eligibility->'fieldOfStudy'", filter.Field)
		if err != nil {
			return q, err
		}
		q = q.Where(cond)
	}
	if filter.FundingType != "" {
		q = q.Where(squirrel.Eq{"funding_type": filter.FundingType})
	}
	if filter.DeadlineBefore != nil {
		q = q.Where(squirrel.LtOrEq{"deadline": *filter.DeadlineBefore})
	}
	if filter.DeadlineAfter != nil {
		q = q.Where(squirrel.GtOrEq{"deadline": *filter.DeadlineAfter})
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"provider": pattern},
		})
	}
	return q, nil
}

// List returns one page of scholarships matching filter, ordered by deadline ascending
func (r *ScholarshipRepository) List(ctx context.Context, filter models.ScholarshipFilter, offset, limit uint64) ([]*models.Scholarship, error) {
	q, err := applyFilter(r.sb.Select(scholarshipColumns...).From("scholarships"), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build scholarship filter: %w", err)
	}
	sql, args, err := q.OrderBy("deadline ASC", "id ASC").Offset(offset).Limit(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list scholarships query: %w", err)
	}
	return r.query(ctx, sql, args...)
}

// ListAll returns every scholarship, ordered by deadline ascending
func (r *ScholarshipRepository) ListAll(ctx context.Context) ([]*models.Scholarship, error) {
	sql, args, err := r.sb.Select(scholarshipColumns...).
		From("scholarships").
		OrderBy("deadline ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list scholarships query: %w", err)
	}
	return r.query(ctx, sql, args...)
}

func (r *ScholarshipRepository) query(ctx context.Context, sql string, args ...interface{}) ([]*models.Scholarship, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list scholarships query")
		return nil, fmt.Errorf("error querying scholarships: %w", err)
	}
	defer rows.Close()

	scholarships := []*models.Scholarship{}
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning scholarship row: %w", err)
		}
		scholarships = append(scholarships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scholarship rows: %w", err)
	}
	return scholarships, nil
}

// Count returns how many scholarships match filter
func (r *ScholarshipRepository) Count(ctx context.Context, filter models.ScholarshipFilter) (int64, error) {
	q, err := applyFilter(r.sb.Select("COUNT(*)").From("scholarships"), filter)
	if err != nil {
		return 0, fmt.Errorf("failed to build scholarship filter: %w", err)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count scholarships query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting scholarships: %w", err)
	}
	return total, nil
}

// GetByID retrieves a scholarship by ID
func (r *ScholarshipRepository) GetByID(ctx context.Context, id int64) (*models.Scholarship, error) {
	sql, args, err := r.sb.Select(scholarshipColumns...).
		From("scholarships").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get scholarship query: %w", err)
	}

	s, err := scanScholarship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrScholarshipNotFound
		}
		logger.Error().Err(err).Int64("scholarshipID", id).Msg("Error scanning scholarship row")
		return nil, fmt.Errorf("error getting scholarship: %w", err)
	}
	return s, nil
}

// IncrementViews bumps the view counter and returns the updated scholarship
func (r *ScholarshipRepository) IncrementViews(ctx context.Context, id int64) (*models.Scholarship, error) {
	sql, args, err := r.sb.Update("scholarships").
		Set("views", squirrel.Expr("views + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(scholarshipColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build increment views query: %w", err)
	}

	s, err := scanScholarship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("error incrementing scholarship views: %w", err)
	}
	return s, nil
}

func scholarshipValues(s *models.Scholarship) (map[string]interface{}, error) {
	eligibility, err := json.Marshal(s.Eligibility)
	if err != nil {
		return nil, fmt.Errorf("failed to encode eligibility: %w", err)
	}
	docs := s.RequiredDocuments
	if docs == nil {
		docs = []string{}
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]interface{}{
		"title":              s.Title,
		"provider":           s.Provider,
		"description":        s.Description,
		"eligibility":        eligibility,
		"deadline":           s.Deadline,
		"funding_type":       s.FundingType,
		"award_value":        s.AwardValue,
		"application_fee":    s.ApplicationFee,
		"required_documents": docs,
		"official_url":       s.OfficialURL,
		"country":            s.Country,
		"university":         s.University,
		"trust_score":        s.TrustScore,
		"is_verified":        s.IsVerified,
		"tags":               tags,
	}, nil
}

// Create inserts a scholarship and fills in its generated fields
func (r *ScholarshipRepository) Create(ctx context.Context, s *models.Scholarship) error {
	values, err := scholarshipValues(s)
	if err != nil {
		return err
	}
	if s.CreatedBy != 0 {
		values["created_by"] = s.CreatedBy
	}

	sql, args, err := r.sb.Insert("scholarships").
		SetMap(values).
		Suffix("RETURNING id, views, applications, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create scholarship query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Views, &s.Applications, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("title", s.Title).Msg("Error creating scholarship")
		return fmt.Errorf("error creating scholarship: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a scholarship
func (r *ScholarshipRepository) Update(ctx context.Context, s *models.Scholarship) error {
	values, err := scholarshipValues(s)
	if err != nil {
		return err
	}
	values["updated_at"] = time.Now()

	sql, args, err := r.sb.Update("scholarships").
		SetMap(values).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING views, applications, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update scholarship query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.Views, &s.Applications, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrScholarshipNotFound
		}
		logger.Error().Err(err).Int64("scholarshipID", s.ID).Msg("Error updating scholarship")
		return fmt.Errorf("error updating scholarship: %w", err)
	}
	return nil
}

// Delete removes a scholarship; saved entries cascade
func (r *ScholarshipRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("scholarships").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete scholarship query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting scholarship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}
