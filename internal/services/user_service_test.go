package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/models"
)

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, status)
	}
	return nil
}

func newUserServiceForTest(users *mockUserRepo, audits *mockAuditRepo, notifications *mockNotificationRepo, worker *jobs.Worker) *UserService {
	return NewUserService(
		users,
		NewAuditService(audits),
		NewNotificationService(notifications),
		NewEmailService(&config.Config{FromEmail: "noreply@pawhome.tw"}),
		worker,
	)
}

func TestUserService_SuspendAuditsAndNotifies(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	target := &models.User{ID: 5, Email: "user@example.com", Role: models.RoleUser, Status: models.StatusActive}
	var newStatus string
	users := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) { return target, nil },
		mockUpdateStatus: func(ctx context.Context, id uint, status string) error {
			newStatus = status
			return nil
		},
	}
	audits := &mockAuditRepo{}
	notifications := newMockNotificationRepo()
	svc := newUserServiceForTest(users, audits, notifications, worker)

	reason := "多次刊登違規內容"
	admin := &models.User{ID: 1, Email: "admin@pawhome.tw", Role: models.RoleAdmin}
	suspended, err := svc.Suspend(context.Background(), admin, 5, &reason)

	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, newStatus)
	assert.Equal(t, models.StatusSuspended, suspended.Status)

	require.Len(t, audits.created, 1)
	entry := audits.created[0]
	assert.Equal(t, models.AuditUserSuspend, entry.ActionType)
	assert.Equal(t, models.StatusActive, entry.PreviousStatus)
	assert.Equal(t, models.StatusSuspended, entry.NewStatus)
	require.NotNil(t, entry.Reason)
	assert.Equal(t, reason, *entry.Reason)

	notification := notifications.awaitCreate(t)
	require.NotNil(t, notification.UserID)
	assert.Equal(t, uint(5), *notification.UserID)
}

func TestUserService_UnsuspendRestores(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	target := &models.User{ID: 5, Email: "user@example.com", Role: models.RoleUser, Status: models.StatusSuspended}
	users := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) { return target, nil },
	}
	audits := &mockAuditRepo{}
	notifications := newMockNotificationRepo()
	svc := newUserServiceForTest(users, audits, notifications, worker)

	restored, err := svc.Unsuspend(context.Background(), &models.User{ID: 1}, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, restored.Status)
	require.Len(t, audits.created, 1)
	assert.Equal(t, models.AuditUserUnsuspend, audits.created[0].ActionType)
}

func TestUserService_SuspendAdminRefused(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	target := &models.User{ID: 2, Role: models.RoleAdmin, Status: models.StatusActive}
	users := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) { return target, nil },
	}
	svc := newUserServiceForTest(users, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	_, err := svc.Suspend(context.Background(), &models.User{ID: 1}, 2, nil)

	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestUserService_SuspendTwiceRefused(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	target := &models.User{ID: 5, Role: models.RoleUser, Status: models.StatusSuspended}
	users := &mockUserRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) { return target, nil },
	}
	audits := &mockAuditRepo{}
	svc := newUserServiceForTest(users, audits, newMockNotificationRepo(), worker)

	_, err := svc.Suspend(context.Background(), &models.User{ID: 1}, 5, nil)

	assert.Equal(t, CodeInvalidTransition, CodeOf(err))
	assert.Empty(t, audits.created)
}

func TestUserService_RecoveryDoesNotLeakAccounts(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	users := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newUserServiceForTest(users, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	err := svc.RequestPasswordRecovery(context.Background(), "nobody@example.com")

	assert.NoError(t, err, "an unknown address must look identical to a known one")
}

func TestUserService_ResetPasswordWithCode(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	code := "123456"
	sentAt := time.Now().Add(-time.Minute)
	target := &models.User{ID: 5, Email: "user@example.com", RecoveryCode: &code, RecoveryCodeSentAt: &sentAt}

	saved := false
	users := &mockUserRepo{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) { return target, nil },
		mockUpdate: func(ctx context.Context, user *models.User) error {
			saved = true
			assert.Nil(t, user.RecoveryCode, "a used code must be cleared")
			return nil
		},
	}
	svc := newUserServiceForTest(users, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	err := svc.ResetPasswordWithCode(context.Background(), "user@example.com", "123456", "new-password")

	require.NoError(t, err)
	assert.True(t, saved)
	assert.NoError(t, VerifyPassword(target.EncryptedPassword, "new-password"))
}

func TestUserService_ResetPasswordRejectsBadCode(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	code := "123456"
	fresh := time.Now().Add(-time.Minute)
	expired := time.Now().Add(-time.Hour)

	tests := []struct {
		name string
		user *models.User
		code string
	}{
		{"wrong code", &models.User{RecoveryCode: &code, RecoveryCodeSentAt: &fresh}, "654321"},
		{"expired code", &models.User{RecoveryCode: &code, RecoveryCodeSentAt: &expired}, "123456"},
		{"no code issued", &models.User{}, "123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{
				mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) { return tt.user, nil },
			}
			svc := newUserServiceForTest(users, &mockAuditRepo{}, newMockNotificationRepo(), worker)

			err := svc.ResetPasswordWithCode(context.Background(), "user@example.com", tt.code, "new-password")

			assert.Equal(t, CodeInvalidCredentials, CodeOf(err))
		})
	}
}
