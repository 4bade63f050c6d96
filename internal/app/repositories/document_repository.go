package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/dberrors"
)

var documentColumns = []string{
	"id", "student_id", "document_type", "file_name", "storage_key", "mime_type", "file_size", "created_at",
}

// DocumentRepository handles database operations for student documents
type DocumentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db, sb: statementBuilder()}
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.StudentID, &d.DocumentType, &d.FileName, &d.StorageKey,
		&d.MimeType, &d.FileSize, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a document record and fills its ID and creation time
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	sql, args, err := r.sb.Insert("documents").
		Columns("student_id", "document_type", "file_name", "storage_key", "mime_type", "file_size").
		Values(d.StudentID, d.DocumentType, d.FileName, d.StorageKey, d.MimeType, d.FileSize).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create document query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.CreatedAt); err != nil {
		return fmt.Errorf("error creating document: %w", err)
	}
	return nil
}

// ListByStudent returns the documents of a student, newest first
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Document, error) {
	sql, args, err := r.sb.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list documents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Document, error) {
		return scanDocument(row)
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning documents: %w", err)
	}
	return docs, nil
}

// GetForStudent returns a document only when it belongs to studentID
func (r *DocumentRepository) GetForStudent(ctx context.Context, id, studentID int64) (*models.Document, error) {
	sql, args, err := r.sb.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"id": id, "student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get document query: %w", err)
	}

	d, err := scanDocument(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error getting document: %w", err)
	}
	return d, nil
}

// DeleteForStudent removes a document record of studentID and returns it
func (r *DocumentRepository) DeleteForStudent(ctx context.Context, id, studentID int64) (*models.Document, error) {
	sql, args, err := r.sb.Delete("documents").
		Where(squirrel.Eq{"id": id, "student_id": studentID}).
		Suffix("RETURNING " + strings.Join(documentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete document query: %w", err)
	}

	d, err := scanDocument(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error deleting document: %w", err)
	}
	return d, nil
}
