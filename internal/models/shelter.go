package models

import (
	"time"
)

// ShelterSite is a public shelter or rescue site listed in the directory
type ShelterSite struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	WebsiteURL   string    `json:"website_url"`
	GoogleMapURL string    `json:"google_map_url"`
	Description  string    `gorm:"type:text" json:"description"`
	Region       string    `gorm:"index" json:"region"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for ShelterSite
func (ShelterSite) TableName() string {
	return "shelter_sites"
}
