package models

import (
	"time"
)

// Notification defines an in-app notification based on the 'notifications' table
type Notification struct {
	ID          int64                  `json:"id" db:"id" example:"1"`
	UserID      int64                  `json:"userId" db:"user_id" example:"5"`
	Category    NotificationCategory   `json:"category" db:"category" example:"deadline"`
	Title       string                 `json:"title" db:"title" example:"Scholarship Deadline Approaching"`
	Message     string                 `json:"message" db:"message"`
	ReferenceID *int64                 `json:"referenceId,omitempty" db:"reference_id"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	IsRead      bool                   `json:"isRead" db:"is_read"`
	ReadAt      *time.Time             `json:"readAt,omitempty" db:"read_at"`
	CreatedAt   time.Time              `json:"createdAt" db:"created_at"`
}

// DeadlineKey formats a deadline the way it is stored in notification metadata.
func DeadlineKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
