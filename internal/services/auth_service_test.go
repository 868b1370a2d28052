package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByID              func(ctx context.Context, id uint) (*models.User, error)
	mockFindByEmail           func(ctx context.Context, email string) (*models.User, error)
	mockCreate                func(ctx context.Context, user *models.User) error
	mockUpdate                func(ctx context.Context, user *models.User) error
	mockUpdateStatus          func(ctx context.Context, id uint, status string) error
	mockIncrementFailedLogins func(ctx context.Context, id uint) (*models.User, error)
	mockResetFailedLogins     func(ctx context.Context, id uint) error
	mockSetLockedUntil        func(ctx context.Context, id uint, until time.Time) error
	mockSetRecoveryCode       func(ctx context.Context, userID uint, code string, sentAt time.Time) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	return m.mockUpdate(ctx, user)
}

func (m *mockUserRepo) IncrementFailedLogins(ctx context.Context, id uint) (*models.User, error) {
	return m.mockIncrementFailedLogins(ctx, id)
}

func (m *mockUserRepo) ResetFailedLogins(ctx context.Context, id uint) error {
	if m.mockResetFailedLogins != nil {
		return m.mockResetFailedLogins(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) SetLockedUntil(ctx context.Context, id uint, until time.Time) error {
	if m.mockSetLockedUntil != nil {
		return m.mockSetLockedUntil(ctx, id, until)
	}
	return nil
}

func (m *mockUserRepo) SetRecoveryCode(ctx context.Context, userID uint, code string, sentAt time.Time) error {
	if m.mockSetRecoveryCode != nil {
		return m.mockSetRecoveryCode(ctx, userID, code, sentAt)
	}
	return nil
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken  func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate       func(ctx context.Context, rt *models.RefreshToken) error
	mockDelete       func(ctx context.Context, token string) error
	mockDeleteByUser func(ctx context.Context, userID uint) error
}

func (m *mockRefreshTokenRepo) DeleteByUser(ctx context.Context, userID uint) error {
	if m.mockDeleteByUser != nil {
		return m.mockDeleteByUser(ctx, userID)
	}
	return nil
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rt)
	}
	return nil
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, token)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 24,
	}
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:                1,
		Email:             "user@example.com",
		EncryptedPassword: hash,
		Name:              "測試使用者",
		Role:              models.RoleUser,
		Status:            models.StatusActive,
	}
}

func TestAuthService_LoginSuccess(t *testing.T) {
	user := activeUser(t, "correct-password")
	svc := NewAuthService(
		&mockUserRepo{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				assert.Equal(t, "user@example.com", email)
				return user, nil
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	result, err := svc.Login(context.Background(), "User@Example.com", "correct-password")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(
		&mockUserRepo{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	assert.Equal(t, CodeInvalidCredentials, CodeOf(err))
}

func TestAuthService_LoginWrongPasswordCountsDown(t *testing.T) {
	user := activeUser(t, "correct-password")
	incremented := false
	svc := NewAuthService(
		&mockUserRepo{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return user, nil
			},
			mockIncrementFailedLogins: func(ctx context.Context, id uint) (*models.User, error) {
				incremented = true
				updated := *user
				updated.FailedLoginAttempts = 2
				return &updated, nil
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	_, err := svc.Login(context.Background(), user.Email, "wrong-password")

	assert.True(t, incremented)
	assert.Equal(t, CodeInvalidCredentials, CodeOf(err))
	detail := DetailOf(err)
	require.NotNil(t, detail)
	assert.Equal(t, 3, detail["remaining_attempts"])
}

func TestAuthService_FifthFailureLocksAccount(t *testing.T) {
	user := activeUser(t, "correct-password")
	var lockedUntil time.Time
	svc := NewAuthService(
		&mockUserRepo{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return user, nil
			},
			mockIncrementFailedLogins: func(ctx context.Context, id uint) (*models.User, error) {
				updated := *user
				updated.FailedLoginAttempts = models.MaxFailedLoginAttempts
				return &updated, nil
			},
			mockSetLockedUntil: func(ctx context.Context, id uint, until time.Time) error {
				lockedUntil = until
				return nil
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	_, err := svc.Login(context.Background(), user.Email, "wrong-password")

	assert.Equal(t, CodeLocked, CodeOf(err))
	assert.WithinDuration(t, time.Now().Add(models.LockoutDuration), lockedUntil, 5*time.Second)
}

func TestAuthService_LockedAccountRejectsCorrectPassword(t *testing.T) {
	user := activeUser(t, "correct-password")
	until := time.Now().Add(10 * time.Minute)
	user.LockedUntil = &until
	user.FailedLoginAttempts = models.MaxFailedLoginAttempts

	svc := NewAuthService(
		&mockUserRepo{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return user, nil
			},
			mockIncrementFailedLogins: func(ctx context.Context, id uint) (*models.User, error) {
				t.Fatal("a locked account must not reach the attempt counter")
				return nil, nil
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	_, err := svc.Login(context.Background(), user.Email, "correct-password")

	assert.Equal(t, CodeLocked, CodeOf(err))
}

func TestAuthService_ExpiredLockAllowsLoginAndResets(t *testing.T) {
	user := activeUser(t, "correct-password")
	until := time.Now().Add(-time.Minute)
	user.LockedUntil = &until
	user.FailedLoginAttempts = models.MaxFailedLoginAttempts

	reset := false
	svc := NewAuthService(
		&mockUserRepo{
			mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
				return user, nil
			},
			mockResetFailedLogins: func(ctx context.Context, id uint) error {
				reset = true
				return nil
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	result, err := svc.Login(context.Background(), user.Email, "correct-password")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, reset, "the stale counter must clear on successful login")
}

func TestAuthService_StatusBlocksBeforeCredentialCheck(t *testing.T) {
	tests := []struct {
		status  string
		message string
	}{
		{models.StatusSuspended, "帳號已被停權，請聯絡管理員"},
		{models.StatusInactive, "帳號尚未啟用，請聯絡管理員"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			user := activeUser(t, "correct-password")
			user.Status = tt.status

			svc := NewAuthService(
				&mockUserRepo{
					mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
						return user, nil
					},
				},
				&mockRefreshTokenRepo{},
				testConfig(),
			)

			_, err := svc.Login(context.Background(), user.Email, "correct-password")

			assert.Equal(t, CodeStatus, CodeOf(err))
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(
		&mockUserRepo{
			mockCreate: func(ctx context.Context, user *models.User) error {
				return repository.ErrDuplicateEmail
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Password: "secret123",
		Name:     "小明",
	})

	assert.Equal(t, CodeConflict, CodeOf(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockRefreshTokenRepo{}, testConfig())

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "secret123", Name: "小明"}},
		{"short password", RegisterInput{Email: "a@b.tw", Password: "12345", Name: "小明"}},
		{"missing name", RegisterInput{Email: "a@b.tw", Password: "secret123", Name: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.Equal(t, CodeValidation, CodeOf(err))
		})
	}
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	user := activeUser(t, "x")
	expiry := time.Now().Add(time.Hour)
	deleted := ""

	svc := NewAuthService(
		&mockUserRepo{
			mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
				return user, nil
			},
		},
		&mockRefreshTokenRepo{
			mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
				return &models.RefreshToken{UserID: user.ID, Token: token, ExpiresAt: &expiry}, nil
			},
			mockDelete: func(ctx context.Context, token string) error {
				deleted = token
				return nil
			},
		},
		testConfig(),
	)

	result, err := svc.Refresh(context.Background(), "old-token")

	require.NoError(t, err)
	assert.Equal(t, "old-token", deleted)
	assert.NotEqual(t, "old-token", result.RefreshToken)
}

func TestAuthService_RefreshExpiredToken(t *testing.T) {
	expiry := time.Now().Add(-time.Hour)

	svc := NewAuthService(
		&mockUserRepo{},
		&mockRefreshTokenRepo{
			mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
				return &models.RefreshToken{UserID: 1, Token: token, ExpiresAt: &expiry}, nil
			},
		},
		testConfig(),
	)

	_, err := svc.Refresh(context.Background(), "stale-token")

	assert.Equal(t, CodeInvalidCredentials, CodeOf(err))
}

func TestAuthService_ChangePasswordRevokesSessions(t *testing.T) {
	user := activeUser(t, "old-password")
	var savedHash string
	var revokedUser uint

	svc := NewAuthService(
		&mockUserRepo{
			mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
				return user, nil
			},
			mockUpdate: func(ctx context.Context, u *models.User) error {
				savedHash = u.EncryptedPassword
				return nil
			},
		},
		&mockRefreshTokenRepo{
			mockDeleteByUser: func(ctx context.Context, userID uint) error {
				revokedUser = userID
				return nil
			},
		},
		testConfig(),
	)

	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password")

	require.NoError(t, err)
	assert.Equal(t, user.ID, revokedUser)
	assert.NoError(t, VerifyPassword(savedHash, "new-password"))
}

func TestAuthService_ChangePasswordWrongCurrent(t *testing.T) {
	user := activeUser(t, "old-password")

	svc := NewAuthService(
		&mockUserRepo{
			mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
				return user, nil
			},
			mockUpdate: func(ctx context.Context, u *models.User) error {
				t.Fatal("password must not change when the current password is wrong")
				return nil
			},
		},
		&mockRefreshTokenRepo{},
		testConfig(),
	)

	err := svc.ChangePassword(context.Background(), user.ID, "guess", "new-password")

	assert.Equal(t, CodeInvalidCredentials, CodeOf(err))
}
