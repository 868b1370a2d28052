package repository

import (
	"context"

	"github.com/pawhome/pawhome-api/internal/models"
	"gorm.io/gorm"
)

// ShelterRepository defines the interface for shelter directory data access
type ShelterRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ShelterSite, error)
	List(ctx context.Context, region string) ([]models.ShelterSite, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, shelters []models.ShelterSite) error
}

type shelterRepository struct {
	db *gorm.DB
}

// NewShelterRepository creates a new shelter repository
func NewShelterRepository(db *gorm.DB) ShelterRepository {
	return &shelterRepository{db: db}
}

func (r *shelterRepository) FindByID(ctx context.Context, id uint) (*models.ShelterSite, error) {
	var shelter models.ShelterSite
	err := r.db.WithContext(ctx).First(&shelter, id).Error
	if err != nil {
		return nil, err
	}
	return &shelter, nil
}

func (r *shelterRepository) List(ctx context.Context, region string) ([]models.ShelterSite, error) {
	var shelters []models.ShelterSite
	db := r.db.WithContext(ctx).Order("region ASC, name ASC")
	if region != "" {
		db = db.Where("region = ?", region)
	}
	err := db.Find(&shelters).Error
	return shelters, err
}

func (r *shelterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShelterSite{}).Count(&count).Error
	return count, err
}

func (r *shelterRepository) CreateBatch(ctx context.Context, shelters []models.ShelterSite) error {
	return r.db.WithContext(ctx).Create(&shelters).Error
}
