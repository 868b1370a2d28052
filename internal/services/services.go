package services

import (
	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/storage"
)

// Services aggregates all business services
type Services struct {
	Auth         *AuthService
	User         *UserService
	Pet          *PetService
	Adoption     *AdoptionService
	Notification *NotificationService
	Audit        *AuditService
	Shelter      *ShelterService
	Export       *ExportService
	Email        *EmailService
	Image        *ImageService
}

// NewServices wires every service with its dependencies
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store storage.Storage, cfg *config.Config) *Services {
	email := NewEmailService(cfg)
	image := NewImageService()
	audit := NewAuditService(repos.Audit)
	notification := NewNotificationService(repos.Notification)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, audit, notification, email, worker),
		Pet:          NewPetService(repos.Pet, audit, notification, image, store, worker),
		Adoption:     NewAdoptionService(repos.Application, repos.Pet, audit, notification, email, worker),
		Notification: notification,
		Audit:        audit,
		Shelter:      NewShelterService(repos.Shelter),
		Export:       NewExportService(audit),
		Email:        email,
		Image:        image,
	}
}
