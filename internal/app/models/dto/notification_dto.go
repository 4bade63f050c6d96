package dto

import "github.com/yigit/scholarpath/internal/app/models"

// NotificationListResponse is the latest notifications of a user
type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount" example:"2"`
}

// MarkAllReadResponse reports how many notifications were updated
type MarkAllReadResponse struct {
	Updated int64 `json:"updated" example:"3"`
}
