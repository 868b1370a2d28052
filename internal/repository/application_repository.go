package repository

import (
	"context"

	"github.com/pawhome/pawhome-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationRepository defines the interface for adoption application data access
type ApplicationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.AdoptionApplication, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.AdoptionApplication, error)
	Create(ctx context.Context, application *models.AdoptionApplication) error
	Update(ctx context.Context, application *models.AdoptionApplication) error
	ListByApplicant(ctx context.Context, applicantID uint) ([]models.AdoptionApplication, error)
	ListByPet(ctx context.Context, petID uint) ([]models.AdoptionApplication, error)
	List(ctx context.Context, query *ListQuery) ([]models.AdoptionApplication, int64, error)
	ApproveWithPet(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*models.AdoptionApplication, error) {
	var application models.AdoptionApplication
	err := r.db.WithContext(ctx).First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.AdoptionApplication, error) {
	var application models.AdoptionApplication
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Applicant").
		First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) Create(ctx context.Context, application *models.AdoptionApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) Update(ctx context.Context, application *models.AdoptionApplication) error {
	return r.db.WithContext(ctx).Save(application).Error
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]models.AdoptionApplication, error) {
	var applications []models.AdoptionApplication
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Preload("Pet").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) ListByPet(ctx context.Context, petID uint) ([]models.AdoptionApplication, error) {
	var applications []models.AdoptionApplication
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("created_at ASC").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) List(ctx context.Context, query *ListQuery) ([]models.AdoptionApplication, int64, error) {
	var applications []models.AdoptionApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AdoptionApplication{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["pet_id"] != "" {
		db = db.Where("pet_id = ?", query.Filters["pet_id"])
	}

	db.Count(&total)
	db = db.Order("created_at DESC").Preload("Pet").Preload("Applicant")

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&applications).Error
	return applications, total, err
}

// ApproveWithPet flips the application to approved and its pet to adopted in
// one transaction. The pet row is locked and its status re-checked inside the
// transaction, so a second approval racing for the same pet fails with
// ErrPetNotAvailable instead of double-adopting. No reader can observe
// approved-without-adopted or the reverse.
func (r *applicationRepository) ApproveWithPet(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error) {
	var application models.AdoptionApplication
	var pet models.Pet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&application, applicationID).Error; err != nil {
			return err
		}
		if application.Status != models.ApplicationStatusPending {
			return ErrApplicationNotPending
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pet, application.PetID).Error; err != nil {
			return err
		}
		if pet.Status != models.PetStatusAvailable {
			return ErrPetNotAvailable
		}

		application.Status = models.ApplicationStatusApproved
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		pet.Status = models.PetStatusAdopted
		return tx.Save(&pet).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &application, &pet, nil
}
