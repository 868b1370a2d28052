package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

// AuthService handles registration, login and session management
type AuthService struct {
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
	cfg           *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, refreshTokens repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		cfg:           cfg,
	}
}

// RegisterInput holds new account fields
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginResult holds the issued session
type LoginResult struct {
	User         *models.User
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// Register creates a new account. The caller is not signed in afterwards;
// a fresh login is required.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewValidationError("請輸入有效的電子郵件")
	}
	if len(input.Password) < 6 {
		return nil, NewValidationError("密碼長度至少需要 6 個字元")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, NewValidationError("請輸入姓名")
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, NewInternalError("無法建立帳號", err)
	}

	user := &models.User{
		Email:             email,
		EncryptedPassword: hashed,
		Name:              strings.TrimSpace(input.Name),
		Phone:             strings.TrimSpace(input.Phone),
		Role:              models.RoleUser,
		Status:            models.StatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, NewConflictError("此電子郵件已被註冊")
		}
		return nil, NewInternalError("無法建立帳號", err)
	}

	return user, nil
}

// Login verifies credentials and issues a session. The account is looked up
// first so lock and status checks run before any password comparison; a
// locked or suspended account rejects even the correct password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewInvalidCredentialsError("電子郵件或密碼錯誤")
		}
		return nil, NewInternalError("登入失敗", err)
	}

	if user.IsLocked() {
		return nil, lockedError(user)
	}
	if user.Status == models.StatusSuspended {
		return nil, NewStatusError("帳號已被停權，請聯絡管理員")
	}
	if user.Status == models.StatusInactive {
		return nil, NewStatusError("帳號尚未啟用，請聯絡管理員")
	}

	if err := VerifyPassword(user.EncryptedPassword, password); err != nil {
		return nil, s.registerFailedAttempt(ctx, user)
	}

	// A successful login inside the attempt window clears the counter.
	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.ResetFailedLogins(ctx, user.ID); err != nil {
			logger.Log.Error("failed to reset login attempts", "user_id", user.ID, "error", err)
		}
	}

	return s.issueSession(ctx, user)
}

// registerFailedAttempt counts the failure and arms the lockout window at
// the threshold. The increment is atomic in the store so concurrent failed
// attempts cannot lose counts.
func (s *AuthService) registerFailedAttempt(ctx context.Context, user *models.User) error {
	updated, err := s.users.IncrementFailedLogins(ctx, user.ID)
	if err != nil {
		logger.Log.Error("failed to record login attempt", "user_id", user.ID, "error", err)
		return NewInvalidCredentialsError("電子郵件或密碼錯誤")
	}

	if updated.FailedLoginAttempts >= models.MaxFailedLoginAttempts {
		until := time.Now().Add(models.LockoutDuration)
		if err := s.users.SetLockedUntil(ctx, user.ID, until); err != nil {
			logger.Log.Error("failed to lock account", "user_id", user.ID, "error", err)
		} else {
			updated.LockedUntil = &until
			logger.Log.Warn("account locked after repeated login failures",
				"user_id", user.ID,
				"attempts", updated.FailedLoginAttempts,
			)
			return lockedError(updated)
		}
	}

	return NewInvalidCredentialsError("電子郵件或密碼錯誤").
		WithDetail("remaining_attempts", updated.RemainingLoginAttempts())
}

func lockedError(user *models.User) *Error {
	message := "帳號已被鎖定，請稍後再試"
	if user.LockedUntil != nil {
		message = fmt.Sprintf("帳號已被鎖定，請於 %s 後再試", user.LockedUntil.Local().Format("15:04"))
	}
	err := NewLockedError(message)
	if user.LockedUntil != nil {
		err.WithDetail("locked_until", user.LockedUntil.UTC())
	}
	return err
}

// Refresh exchanges a valid refresh token for a new session
func (s *AuthService) Refresh(ctx context.Context, token string) (*LoginResult, error) {
	rt, err := s.refreshTokens.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewInvalidCredentialsError("無效的更新憑證")
		}
		return nil, NewInternalError("無法更新憑證", err)
	}

	if rt.IsExpired() {
		_ = s.refreshTokens.Delete(ctx, token)
		return nil, NewInvalidCredentialsError("更新憑證已過期，請重新登入")
	}

	user, err := s.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, NewInvalidCredentialsError("無效的更新憑證")
	}
	if user.Status == models.StatusSuspended {
		return nil, NewStatusError("帳號已被停權，請聯絡管理員")
	}

	// One-time use: the old token is revoked when a session is reissued.
	if err := s.refreshTokens.Delete(ctx, token); err != nil {
		logger.Log.Error("failed to revoke refresh token", "error", err)
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the given refresh token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.refreshTokens.Delete(ctx, token); err != nil {
		return NewInternalError("登出失敗", err)
	}
	return nil
}

// ChangePassword verifies the current password before replacing it. All
// refresh tokens are revoked so other sessions must sign in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return NewValidationError("密碼長度至少需要 6 個字元")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("找不到使用者")
		}
		return NewInternalError("無法變更密碼", err)
	}

	if err := VerifyPassword(user.EncryptedPassword, currentPassword); err != nil {
		return NewInvalidCredentialsError("目前密碼錯誤")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return NewInternalError("無法變更密碼", err)
	}
	user.EncryptedPassword = hashed
	if err := s.users.Update(ctx, user); err != nil {
		return NewInternalError("無法變更密碼", err)
	}

	if err := s.refreshTokens.DeleteByUser(ctx, user.ID); err != nil {
		logger.Log.Error("failed to revoke refresh tokens", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*LoginResult, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)

	token, err := s.generateJWT(user, expiresAt)
	if err != nil {
		return nil, NewInternalError("登入失敗", err)
	}

	refreshExpiry := time.Now().Add(30 * 24 * time.Hour)
	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: &refreshExpiry,
	}
	if err := s.refreshTokens.Create(ctx, refresh); err != nil {
		return nil, NewInternalError("登入失敗", err)
	}

	return &LoginResult{
		User:         user,
		Token:        token,
		RefreshToken: refresh.Token,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) generateJWT(user *models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a bcrypt hash against a plaintext candidate
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
