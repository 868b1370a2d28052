package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
)

// NotificationService handles workflow messages for users and role broadcasts
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// NotificationInput describes a message to deliver
type NotificationInput struct {
	Title            string
	Message          string
	NotificationType string
	PetID            *uint
	ApplicationID    *uint
}

// NotifyUser creates a notification addressed to a single user
func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, input NotificationInput) error {
	notification := &models.Notification{
		UserID:  &userID,
		Title:   input.Title,
		Message: input.Message,
		PetID:   input.PetID,
	}
	if input.NotificationType != "" {
		notification.NotificationType = &input.NotificationType
	}
	notification.ApplicationID = input.ApplicationID

	return s.notifications.Create(ctx, notification)
}

// NotifyRole creates a single broadcast row visible to every holder of the
// role, rather than one row per member.
func (s *NotificationService) NotifyRole(ctx context.Context, role string, input NotificationInput) error {
	notification := &models.Notification{
		Role:    &role,
		Title:   input.Title,
		Message: input.Message,
		PetID:   input.PetID,
	}
	if input.NotificationType != "" {
		notification.NotificationType = &input.NotificationType
	}
	notification.ApplicationID = input.ApplicationID

	return s.notifications.Create(ctx, notification)
}

// ListForUser returns notifications addressed to the user or broadcast to
// their role, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, role string, query *repository.ListQuery) ([]models.Notification, int64, error) {
	notifications, total, err := s.notifications.FindForRecipient(ctx, userID, role, query)
	if err != nil {
		return nil, 0, NewInternalError("無法讀取通知", err)
	}
	return notifications, total, nil
}

// CountUnread returns the unread count for the user and their role
func (s *NotificationService) CountUnread(ctx context.Context, userID uint, role string) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, userID, role)
	if err != nil {
		return 0, NewInternalError("無法讀取通知", err)
	}
	return count, nil
}

// MarkAsRead marks one notification read. Re-reading an already read
// notification is a no-op, not an error.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uint) error {
	notification, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("找不到通知")
		}
		return NewInternalError("無法更新通知", err)
	}

	if notification.IsRead() {
		return nil
	}

	notification.MarkAsRead()
	if err := s.notifications.Update(ctx, notification); err != nil {
		return NewInternalError("無法更新通知", err)
	}
	return nil
}

// MarkAllAsRead marks every unread notification addressed to the user
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	if err := s.notifications.MarkAllAsRead(ctx, userID); err != nil {
		return NewInternalError("無法更新通知", err)
	}
	return nil
}

// ResolveApplicationBroadcasts marks role broadcasts tied to an application
// as read once the application has been decided.
func (s *NotificationService) ResolveApplicationBroadcasts(ctx context.Context, role string, applicationID uint) error {
	return s.notifications.MarkBroadcastsReadByApplication(ctx, role, applicationID)
}
