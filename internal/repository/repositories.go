package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors surfaced by repositories for the service layer to classify
var (
	// ErrPetNotAvailable is returned by conditional writes that require the
	// target pet to currently be available.
	ErrPetNotAvailable = errors.New("pet is not available")
	// ErrApplicationNotPending is returned when a review targets an
	// application that already left the pending state.
	ErrApplicationNotPending = errors.New("application is not pending")
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Pet          PetRepository
	Application  ApplicationRepository
	Notification NotificationRepository
	Audit        AuditRepository
	Shelter      ShelterRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Pet:          NewPetRepository(db),
		Application:  NewApplicationRepository(db),
		Notification: NewNotificationRepository(db),
		Audit:        NewAuditRepository(db),
		Shelter:      NewShelterRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Page is the mapped result of a paginated query
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPage builds a Page from a result slice and total count. Pages are
// 1-indexed; page and pageSize fall back to sane defaults when out of range.
func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
