package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
)

// UserService handles profile access and account administration
type UserService struct {
	users         repository.UserRepository
	audits        *AuditService
	notifications *NotificationService
	email         *EmailService
	worker        *jobs.Worker
}

// NewUserService creates a new user service
func NewUserService(
	users repository.UserRepository,
	audits *AuditService,
	notifications *NotificationService,
	email *EmailService,
	worker *jobs.Worker,
) *UserService {
	return &UserService{
		users:         users,
		audits:        audits,
		notifications: notifications,
		email:         email,
		worker:        worker,
	}
}

// FindByID returns a user by id
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到使用者")
		}
		return nil, NewInternalError("無法讀取使用者", err)
	}
	return user, nil
}

// UpdateProfileInput holds editable profile fields
type UpdateProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateProfile updates a user's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, id uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	user.Phone = strings.TrimSpace(input.Phone)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, NewInternalError("無法更新使用者", err)
	}
	return user, nil
}

// List returns users matching the query, for administrators
func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, query)
	if err != nil {
		return nil, 0, NewInternalError("無法讀取使用者清單", err)
	}
	return users, total, nil
}

// Suspend blocks an account. The decision is audited and the user is told
// why their next login will fail.
func (s *UserService) Suspend(ctx context.Context, admin *models.User, userID uint, reason *string) (*models.User, error) {
	return s.setStatus(ctx, admin, userID, models.StatusSuspended, reason)
}

// Unsuspend restores a suspended account
func (s *UserService) Unsuspend(ctx context.Context, admin *models.User, userID uint, reason *string) (*models.User, error) {
	return s.setStatus(ctx, admin, userID, models.StatusActive, reason)
}

func (s *UserService) setStatus(ctx context.Context, admin *models.User, userID uint, status string, reason *string) (*models.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() && status == models.StatusSuspended {
		return nil, NewValidationError("無法停權管理員帳號")
	}
	if user.Status == status {
		return nil, NewInvalidTransitionError("帳號已是此狀態").
			WithDetail("current_status", user.Status)
	}

	previousStatus := user.Status
	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		return nil, NewInternalError("無法更新帳號狀態", err)
	}
	user.Status = status

	actionType := models.AuditUserSuspend
	action := "suspend"
	notificationType := models.NotificationTypeAccountSuspended
	title := "帳號已被停權"
	message := "您的帳號已被停權，停權期間無法登入。如有疑問請聯絡管理員。"
	if status == models.StatusActive {
		actionType = models.AuditUserUnsuspend
		action = "unsuspend"
		notificationType = models.NotificationTypeAccountRestored
		title = "帳號已恢復"
		message = "您的帳號已恢復正常，現在可以登入使用。"
	}

	s.audits.Record(ctx, AuditEntry{
		ActionType:     actionType,
		Actor:          admin,
		TargetID:       user.ID,
		TargetType:     models.AuditTargetUser,
		Action:         action,
		Reason:         reason,
		PreviousStatus: previousStatus,
		NewStatus:      status,
		Metadata:       models.JSONMap{"user_email": user.Email},
	})

	targetID := user.ID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifications.NotifyUser(ctx, targetID, NotificationInput{
			Title:            title,
			Message:          message,
			NotificationType: notificationType,
		})
	})

	return user, nil
}
