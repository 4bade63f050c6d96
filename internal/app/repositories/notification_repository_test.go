package repositories

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarpath/internal/app/models"
)

func TestDeadlineExistsQuery(t *testing.T) {
	repo := &NotificationRepository{sb: statementBuilder()}
	deadline := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.deadlineExistsQuery(7, 42, deadline).ToSql()
	require.NoError(t, err)

	assert.Regexp(t, `^SELECT EXISTS \(\s*SELECT 1 FROM notifications WHERE .+ LIMIT 1\s*\)$`, sql)
	assert.Contains(t, sql, "category = $1")
	assert.Contains(t, sql, "reference_id = $2")
	assert.Contains(t, sql, "user_id = $3")
	assert.Contains(t, sql, "metadata->>'deadline' = $4")
	require.Len(t, args, 4)
	assert.Equal(t, models.NotificationDeadline, args[0])
	assert.EqualValues(t, 42, args[1])
	assert.EqualValues(t, 7, args[2])
	assert.Equal(t, "2030-05-01T00:00:00Z", args[3])
}

func TestInsertQuery_DeadlineConflictTarget(t *testing.T) {
	repo := &NotificationRepository{sb: statementBuilder()}
	ref := int64(42)
	n := &models.Notification{
		UserID:      7,
		Category:    models.NotificationDeadline,
		Title:       "Scholarship Deadline Approaching",
		Message:     "3 days left",
		ReferenceID: &ref,
		Metadata:    map[string]interface{}{"deadline": "2030-05-01T00:00:00Z"},
	}

	sql, args, err := repo.insertQuery(n, "ON CONFLICT "+deadlineConflictTarget+" DO NOTHING")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql,
		"INSERT INTO notifications (user_id,category,title,message,reference_id,metadata) VALUES ($1,$2,$3,$4,$5,$6)"), sql)
	assert.True(t, strings.HasSuffix(sql,
		"ON CONFLICT (user_id, reference_id, category, (metadata->>'deadline')) WHERE category = 'deadline' DO NOTHING RETURNING id, created_at"), sql)
	require.Len(t, args, 6)
	assert.JSONEq(t, `{"deadline":"2030-05-01T00:00:00Z"}`, string(args[5].([]byte)))

	plain, _, err := repo.insertQuery(&models.Notification{UserID: 7, Category: models.NotificationDeadline}, "")
	require.NoError(t, err)
	assert.NotContains(t, plain, "ON CONFLICT")
	assert.True(t, strings.HasSuffix(plain, ") RETURNING id, created_at"), plain)
}

func TestDeadlineConflictTargetMatchesMigration(t *testing.T) {
	raw, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)
	migration := strings.Join(strings.Fields(string(raw)), " ")

	assert.Contains(t, migration, "CREATE UNIQUE INDEX IF NOT EXISTS uq_notifications_deadline_reminder ON notifications "+deadlineConflictTarget+";")
	assert.Equal(t, "deadline", string(models.NotificationDeadline))
}
