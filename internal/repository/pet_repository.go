package repository

import (
	"context"
	"strconv"

	"github.com/pawhome/pawhome-api/internal/models"
	"gorm.io/gorm"
)

// PetSearchQuery describes a search over available pet listings.
// Age accepts an exact value ("3") or a named bucket: young (<=1),
// adult (1 < age <= 7), senior (> 7).
type PetSearchQuery struct {
	Species   string
	Gender    string
	Age       string
	Location  string // prefix match
	SortBy    string // created_at, location, name
	SortOrder string // asc, desc
	Page      int
	PageSize  int
}

// NewPetSearchQuery creates a search query with defaults: newest first, page 1.
func NewPetSearchQuery() *PetSearchQuery {
	return &PetSearchQuery{
		SortBy:    "created_at",
		SortOrder: "desc",
		Page:      1,
		PageSize:  12,
	}
}

// AgeBounds resolves the Age filter into inclusive/exclusive bounds.
// Returns ok=false when no age filter applies.
func (q *PetSearchQuery) AgeBounds() (min, max *int, exact *int, ok bool) {
	switch q.Age {
	case "":
		return nil, nil, nil, false
	case "young":
		one := 1
		return nil, &one, nil, true
	case "adult":
		lo, hi := 1, 7
		return &lo, &hi, nil, true
	case "senior":
		lo := 7
		return &lo, nil, nil, true
	}
	if n, err := strconv.Atoi(q.Age); err == nil {
		return nil, nil, &n, true
	}
	return nil, nil, nil, false
}

// OrderClause maps the sort parameters onto a safe SQL order expression.
// Location and name compare case-insensitively; created_at numerically.
func (q *PetSearchQuery) OrderClause() string {
	dir := "DESC"
	if q.SortOrder == "asc" {
		dir = "ASC"
	}
	switch q.SortBy {
	case "location":
		return "LOWER(location) " + dir
	case "name":
		return "LOWER(name) " + dir
	default:
		return "created_at " + dir
	}
}

// PetRepository defines the interface for pet listing data access
type PetRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Pet, error)
	FindByIDWithPhotos(ctx context.Context, id uint) (*models.Pet, error)
	Create(ctx context.Context, pet *models.Pet) error
	Update(ctx context.Context, pet *models.Pet) error
	Search(ctx context.Context, query *PetSearchQuery) (Page[models.Pet], error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error)
	ListPendingReview(ctx context.Context, query *ListQuery) ([]models.Pet, int64, error)
	AddPhoto(ctx context.Context, photo *models.PetPhoto) error
	ListPhotos(ctx context.Context, petID uint) ([]models.PetPhoto, error)
}

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *gorm.DB) PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) FindByID(ctx context.Context, id uint) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.WithContext(ctx).First(&pet, id).Error
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) FindByIDWithPhotos(ctx context.Context, id uint) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("photo_order ASC")
		}).
		Preload("Owner").
		First(&pet, id).Error
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) Create(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

func (r *petRepository) Update(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Save(pet).Error
}

// Search pages through available listings only. Location filters by prefix so
// a city ("台北市") matches its districts ("台北市信義區").
func (r *petRepository) Search(ctx context.Context, query *PetSearchQuery) (Page[models.Pet], error) {
	var pets []models.Pet
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Pet{}).
		Where("status = ?", models.PetStatusAvailable)

	if query.Species != "" {
		db = db.Where("species = ?", query.Species)
	}
	if query.Gender != "" {
		db = db.Where("gender = ?", query.Gender)
	}
	if min, max, exact, ok := query.AgeBounds(); ok {
		switch {
		case exact != nil:
			db = db.Where("age = ?", *exact)
		default:
			if min != nil {
				db = db.Where("age > ?", *min)
			}
			if max != nil {
				db = db.Where("age <= ?", *max)
			}
		}
	}
	if query.Location != "" {
		db = db.Where("location LIKE ?", query.Location+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return Page[models.Pet]{}, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	err := db.Order(query.OrderClause()).
		Offset((page - 1) * query.PageSize).
		Limit(query.PageSize).
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("photo_order ASC")
		}).
		Find(&pets).Error
	if err != nil {
		return Page[models.Pet]{}, err
	}

	return NewPage(pets, total, page, query.PageSize), nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	var pets []models.Pet
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Preload("Photos").
		Find(&pets).Error
	return pets, err
}

func (r *petRepository) ListPendingReview(ctx context.Context, query *ListQuery) ([]models.Pet, int64, error) {
	var pets []models.Pet
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Pet{}).
		Where("status = ?", models.PetStatusPendingReview)

	db.Count(&total)
	db = db.Order("created_at ASC").Preload("Owner")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&pets).Error
	return pets, total, err
}

func (r *petRepository) AddPhoto(ctx context.Context, photo *models.PetPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *petRepository) ListPhotos(ctx context.Context, petID uint) ([]models.PetPhoto, error) {
	var photos []models.PetPhoto
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("photo_order ASC").
		Find(&photos).Error
	return photos, err
}
