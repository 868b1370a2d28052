package models

import (
	"time"
)

// AdoptionApplication represents an adoption request against one pet listing
type AdoptionApplication struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PetID             uint      `gorm:"not null;index" json:"pet_id"`
	ApplicantID       uint      `gorm:"not null;index" json:"applicant_id"`
	ApplicantName     string    `gorm:"not null" json:"applicant_name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Address           string    `json:"address"`
	LivingEnvironment string    `json:"living_environment"`
	HasYard           *bool     `json:"has_yard"`
	Experience        string    `gorm:"type:text" json:"experience"`
	CarePlan          string    `gorm:"type:text" json:"care_plan"`
	FamilyMembers     *int      `json:"family_members"`
	AgreePrivacy      bool      `gorm:"default:false" json:"agree_privacy"`
	Status            string    `gorm:"default:pending;index" json:"status"`
	ReviewReason      *string   `gorm:"type:text" json:"review_reason"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Associations
	Pet       Pet  `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Applicant User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

// TableName specifies the table name for AdoptionApplication
func (AdoptionApplication) TableName() string {
	return "adoption_applications"
}

// Application status constants
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// MayReview returns true if the application can be approved or rejected
func (a *AdoptionApplication) MayReview() bool {
	return a.Status == ApplicationStatusPending
}

// ApplicationResponse is the JSON response format for adoption applications
type ApplicationResponse struct {
	ID                uint      `json:"id"`
	PetID             uint      `json:"pet_id"`
	PetName           string    `json:"pet_name,omitempty"`
	PetStatus         string    `json:"pet_status,omitempty"`
	ApplicantID       uint      `json:"applicant_id"`
	ApplicantName     string    `json:"applicant_name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Address           string    `json:"address"`
	LivingEnvironment string    `json:"living_environment"`
	HasYard           *bool     `json:"has_yard"`
	Experience        string    `json:"experience"`
	CarePlan          string    `json:"care_plan"`
	FamilyMembers     *int      `json:"family_members"`
	Status            string    `json:"status"`
	ReviewReason      *string   `json:"review_reason"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToResponse converts AdoptionApplication to ApplicationResponse
func (a *AdoptionApplication) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		PetID:             a.PetID,
		PetName:           a.Pet.Name,
		PetStatus:         a.Pet.Status,
		ApplicantID:       a.ApplicantID,
		ApplicantName:     a.ApplicantName,
		Phone:             a.Phone,
		Email:             a.Email,
		Address:           a.Address,
		LivingEnvironment: a.LivingEnvironment,
		HasYard:           a.HasYard,
		Experience:        a.Experience,
		CarePlan:          a.CarePlan,
		FamilyMembers:     a.FamilyMembers,
		Status:            a.Status,
		ReviewReason:      a.ReviewReason,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
