package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/pkg/apperrors"
	"github.com/yigit/scholarpath/internal/pkg/dberrors"
	"github.com/yigit/scholarpath/internal/pkg/logger"
)

// NotificationListLimit caps how many notifications a listing returns
const NotificationListLimit = 50

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db, sb: statementBuilder()}
}

// ExistsDeadlineNotification reports whether userID was already reminded about savedID for this exact deadline
func (r *NotificationRepository) ExistsDeadlineNotification(ctx context.Context, userID, savedID int64, deadline time.Time) (bool, error) {
	sql, args, err := r.deadlineExistsQuery(userID, savedID, deadline).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build deadline notification check: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking deadline notification: %w", err)
	}
	return exists, nil
}

func (r *NotificationRepository) deadlineExistsQuery(userID, savedID int64, deadline time.Time) squirrel.SelectBuilder {
	return r.sb.Select("1").
		From("notifications").
		Where(squirrel.Eq{
			"user_id":      userID,
			"reference_id": savedID,
			"category":     models.NotificationDeadline,
		}).
		Where(squirrel.Expr("metadata->>'deadline' = ?", models.DeadlineKey(deadline))).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1)
}

// deadlineConflictTarget must match uq_notifications_deadline_reminder in the migrations
const deadlineConflictTarget = "(user_id, reference_id, category, (metadata->>'deadline')) WHERE category = 'deadline'"

// CreateDeadlineNotification inserts n unless the unique deadline index already holds
// an equivalent row; created is false on such a conflict.
func (r *NotificationRepository) CreateDeadlineNotification(ctx context.Context, n *models.Notification) (bool, error) {
	return r.insert(ctx, n, "ON CONFLICT "+deadlineConflictTarget+" DO NOTHING")
}

// Create inserts a notification of any category
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	_, err := r.insert(ctx, n, "")
	return err
}

func (r *NotificationRepository) insert(ctx context.Context, n *models.Notification, conflict string) (bool, error) {
	sql, args, err := r.insertQuery(n, conflict)
	if err != nil {
		return false, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", n.UserID).Msg("Error creating notification")
		return false, fmt.Errorf("error creating notification: %w", err)
	}
	return true, nil
}

func (r *NotificationRepository) insertQuery(n *models.Notification, conflict string) (string, []interface{}, error) {
	metadata := n.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	encoded, err := toJSONB(metadata)
	if err != nil {
		return "", nil, err
	}

	suffix := "RETURNING id, created_at"
	if conflict != "" {
		suffix = conflict + " " + suffix
	}
	sql, args, err := r.sb.Insert("notifications").
		Columns("user_id", "category", "title", "message", "reference_id", "metadata").
		Values(n.UserID, n.Category, n.Title, n.Message, n.ReferenceID, encoded).
		Suffix(suffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build create notification query: %w", err)
	}
	return sql, args, nil
}

// ListLatest returns the newest notifications of userID
func (r *NotificationRepository) ListLatest(ctx context.Context, userID int64, limit uint64) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "user_id", "category", "title", "message", "reference_id",
		"metadata", "is_read", "read_at", "created_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Notification, error) {
		n := &models.Notification{}
		err := row.Scan(&n.ID, &n.UserID, &n.Category, &n.Title, &n.Message, &n.ReferenceID,
			&n.Metadata, &n.IsRead, &n.ReadAt, &n.CreatedAt)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning notifications: %w", err)
	}
	return list, nil
}

// CountUnread returns how many unread notifications userID has
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build unread count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification of userID as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", squirrel.Expr("COALESCE(read_at, ?)", time.Now())).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of userID as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark all read query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
