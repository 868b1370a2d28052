package models

import (
	"time"
)

// Pet represents an adoptable-animal listing
type Pet struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Name         string    `gorm:"not null" json:"name"`
	Species      string    `gorm:"index" json:"species"`
	Breed        *string   `json:"breed"`
	Age          *int      `json:"age"`
	Gender       string    `json:"gender"`
	Location     string    `gorm:"index" json:"location"`
	Description  string    `gorm:"type:text" json:"description"`
	IsVaccinated bool      `gorm:"default:false" json:"is_vaccinated"`
	IsNeutered   bool      `gorm:"default:false" json:"is_neutered"`
	IsHealthy    bool      `gorm:"default:false" json:"is_healthy"`
	Status       string    `gorm:"default:pending_review;index" json:"status"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Owner        User                  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Photos       []PetPhoto            `gorm:"foreignKey:PetID" json:"photos,omitempty"`
	Applications []AdoptionApplication `gorm:"foreignKey:PetID" json:"applications,omitempty"`
}

// TableName specifies the table name for Pet
func (Pet) TableName() string {
	return "pets"
}

// Pet status constants
const (
	PetStatusPendingReview = "pending_review"
	PetStatusAvailable     = "available"
	PetStatusRejected      = "rejected"
	PetStatusAdopted       = "adopted"
)

// IsAvailable returns true if the pet is open for adoption applications
func (p *Pet) IsAvailable() bool {
	return p.Status == PetStatusAvailable
}

// MayReview returns true if the pet can be approved or rejected
func (p *Pet) MayReview() bool {
	return p.Status == PetStatusPendingReview
}

// MayAdopt returns true if the pet can transition to adopted
func (p *Pet) MayAdopt() bool {
	return p.Status == PetStatusAvailable
}

// PetPhoto is an ordered photo attached to a pet listing.
// Photos are created during submission and never mutated afterwards.
type PetPhoto struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PetID       uint      `gorm:"not null;index" json:"pet_id"`
	URL         string    `gorm:"not null" json:"url"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	Thumbnail   *string   `json:"thumbnail"`
	Order       int       `gorm:"column:photo_order;default:0" json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for PetPhoto
func (PetPhoto) TableName() string {
	return "pet_photos"
}

// PetResponse is the JSON response format for pets
type PetResponse struct {
	ID           uint       `json:"id"`
	OwnerID      uint       `json:"owner_id"`
	OwnerName    string     `json:"owner_name,omitempty"`
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        *string    `json:"breed"`
	Age          *int       `json:"age"`
	Gender       string     `json:"gender"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	IsVaccinated bool       `json:"is_vaccinated"`
	IsNeutered   bool       `json:"is_neutered"`
	IsHealthy    bool       `json:"is_healthy"`
	Status       string     `json:"status"`
	Photos       []PetPhoto `json:"photos,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToResponse converts Pet to PetResponse
func (p *Pet) ToResponse() PetResponse {
	return PetResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		OwnerName:    p.Owner.Name,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		Age:          p.Age,
		Gender:       p.Gender,
		Location:     p.Location,
		Description:  p.Description,
		IsVaccinated: p.IsVaccinated,
		IsNeutered:   p.IsNeutered,
		IsHealthy:    p.IsHealthy,
		Status:       p.Status,
		Photos:       p.Photos,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
