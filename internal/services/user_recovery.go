package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/pkg/logger"
)

// recoveryCodeTTL is how long a recovery code stays valid.
const recoveryCodeTTL = 15 * time.Minute

// generateRecoveryCode returns a random six digit code
func generateRecoveryCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestPasswordRecovery issues a recovery code and emails it. The response
// is identical whether or not the address is registered, so the endpoint
// cannot be used to probe for accounts.
func (s *UserService) RequestPasswordRecovery(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return NewValidationError("請輸入電子郵件")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return NewInternalError("無法處理密碼重設", err)
	}

	code, err := generateRecoveryCode()
	if err != nil {
		return NewInternalError("無法處理密碼重設", err)
	}

	if err := s.users.SetRecoveryCode(ctx, user.ID, code, time.Now()); err != nil {
		return NewInternalError("無法處理密碼重設", err)
	}

	recipientEmail := user.Email
	recipientName := user.Name
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.email.SendRecoveryCode(recipientEmail, recipientName, code); err != nil {
			logger.Log.Error("failed to send recovery code", "error", err)
		}
		return nil
	})

	return nil
}

// ResetPasswordWithCode verifies a recovery code and sets a new password.
// A used or expired code is rejected.
func (s *UserService) ResetPasswordWithCode(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(newPassword) < 6 {
		return NewValidationError("密碼長度至少需要 6 個字元")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewInvalidCredentialsError("驗證碼錯誤或已失效")
		}
		return NewInternalError("無法重設密碼", err)
	}

	if user.RecoveryCode == nil || user.RecoveryCodeSentAt == nil {
		return NewInvalidCredentialsError("驗證碼錯誤或已失效")
	}
	if *user.RecoveryCode != code {
		return NewInvalidCredentialsError("驗證碼錯誤或已失效")
	}
	if time.Since(*user.RecoveryCodeSentAt) > recoveryCodeTTL {
		return NewInvalidCredentialsError("驗證碼錯誤或已失效")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return NewInternalError("無法重設密碼", err)
	}

	user.EncryptedPassword = hashed
	user.RecoveryCode = nil
	user.RecoveryCodeSentAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return NewInternalError("無法重設密碼", err)
	}

	// A successful reset also clears any lockout, matching a fresh start.
	if err := s.users.ResetFailedLogins(ctx, user.ID); err != nil {
		logger.Log.Error("failed to clear login attempts after reset", "user_id", user.ID, "error", err)
	}

	return nil
}
