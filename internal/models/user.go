package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system
type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	EncryptedPassword   string     `gorm:"column:encrypted_password;not null" json:"-"`
	Name                string     `gorm:"not null" json:"name"`
	Phone               string     `json:"phone"`
	Role                string     `gorm:"default:user;index" json:"role"`
	Status              string     `gorm:"default:active;index" json:"status"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	RecoveryCode        *string    `json:"-"`
	RecoveryCodeSentAt  *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Associations
	Pets          []Pet                 `gorm:"foreignKey:OwnerID" json:"pets,omitempty"`
	Applications  []AdoptionApplication `gorm:"foreignKey:ApplicantID" json:"applications,omitempty"`
	Notifications []Notification        `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Status constants
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

// Account lockout policy
const (
	MaxFailedLoginAttempts = 5
	LockoutDuration        = 30 * time.Minute
)

// IsAdmin returns true if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if user status is active
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsLocked returns true if the account is inside its lockout window.
// An expired window needs no explicit unlock.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// RegisterFailedLogin increments the failure counter and arms the lockout
// window once the threshold is reached.
func (u *User) RegisterFailedLogin() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		until := time.Now().Add(LockoutDuration)
		u.LockedUntil = &until
	}
}

// ResetFailedLogins clears the failure counter and lockout window after a
// successful login.
func (u *User) ResetFailedLogins() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}

// RemainingLoginAttempts returns how many attempts are left before lockout.
func (u *User) RemainingLoginAttempts() int {
	remaining := MaxFailedLoginAttempts - u.FailedLoginAttempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UserResponse is the JSON response format for users
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
