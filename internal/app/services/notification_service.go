package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarpath/internal/app/models/dto"
	"github.com/yigit/scholarpath/internal/app/repositories"
)

// NotificationService serves the in-app notification inbox
type NotificationService struct {
	notifications NotificationStore
	logger        zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications NotificationStore, logger zerolog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// List returns the latest notifications with the unread count
func (s *NotificationService) List(ctx context.Context, userID int64) (*dto.NotificationListResponse, error) {
	list, err := s.notifications.ListLatest(ctx, userID, repositories.NotificationListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationListResponse{Notifications: list, UnreadCount: int(unread)}, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (*dto.MarkAllReadResponse, error) {
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("userID", userID).Int64("updated", n).Msg("Notifications marked read")
	return &dto.MarkAllReadResponse{Updated: n}, nil
}
