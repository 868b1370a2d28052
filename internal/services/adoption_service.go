package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/statemachine"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

// AdoptionService handles adoption applications and their review
type AdoptionService struct {
	applications  repository.ApplicationRepository
	pets          repository.PetRepository
	audits        *AuditService
	notifications *NotificationService
	email         *EmailService
	worker        *jobs.Worker
}

// NewAdoptionService creates a new adoption service
func NewAdoptionService(
	applications repository.ApplicationRepository,
	pets repository.PetRepository,
	audits *AuditService,
	notifications *NotificationService,
	email *EmailService,
	worker *jobs.Worker,
) *AdoptionService {
	return &AdoptionService{
		applications:  applications,
		pets:          pets,
		audits:        audits,
		notifications: notifications,
		email:         email,
		worker:        worker,
	}
}

// ApplicationInput holds adoption application fields
type ApplicationInput struct {
	PetID             uint   `json:"pet_id" binding:"required"`
	ApplicantName     string `json:"applicant_name" binding:"required"`
	Phone             string `json:"phone" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Address           string `json:"address"`
	LivingEnvironment string `json:"living_environment"`
	HasYard           *bool  `json:"has_yard"`
	Experience        string `json:"experience"`
	CarePlan          string `json:"care_plan"`
	FamilyMembers     *int   `json:"family_members"`
	AgreePrivacy      bool   `json:"agree_privacy"`
}

// Submit files an application for an available pet. The availability check
// runs first so an adopted or unlisted pet rejects the application before
// anything is written.
func (s *AdoptionService) Submit(ctx context.Context, applicantID uint, input ApplicationInput) (*models.AdoptionApplication, error) {
	if !input.AgreePrivacy {
		return nil, NewValidationError("請同意個人資料使用條款")
	}

	pet, err := s.pets.FindByID(ctx, input.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到此送養資訊")
		}
		return nil, NewInternalError("無法讀取送養資訊", err)
	}
	if !pet.IsAvailable() {
		return nil, NewUnavailableError("此毛孩目前無法申請領養").
			WithDetail("current_status", pet.Status)
	}
	if pet.OwnerID == applicantID {
		return nil, NewValidationError("無法申請領養自己刊登的毛孩")
	}

	application := &models.AdoptionApplication{
		PetID:             input.PetID,
		ApplicantID:       applicantID,
		ApplicantName:     input.ApplicantName,
		Phone:             input.Phone,
		Email:             input.Email,
		Address:           input.Address,
		LivingEnvironment: input.LivingEnvironment,
		HasYard:           input.HasYard,
		Experience:        input.Experience,
		CarePlan:          input.CarePlan,
		FamilyMembers:     input.FamilyMembers,
		AgreePrivacy:      input.AgreePrivacy,
		Status:            models.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, NewInternalError("無法送出領養申請", err)
	}

	s.broadcastNewApplication(application, pet)

	return application, nil
}

// broadcastNewApplication posts a single admin-role notification so every
// reviewer sees the pending application.
func (s *AdoptionService) broadcastNewApplication(application *models.AdoptionApplication, pet *models.Pet) {
	applicationID := application.ID
	petID := pet.ID
	message := fmt.Sprintf("%s 申請領養「%s」，請前往審核。", application.ApplicantName, pet.Name)

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifications.NotifyRole(ctx, models.RoleAdmin, NotificationInput{
			Title:            "新的領養申請",
			Message:          message,
			NotificationType: models.NotificationTypeAdoptionSubmitted,
			PetID:            &petID,
			ApplicationID:    &applicationID,
		})
	})
}

// Review decides a pending application. Approval writes the application and
// the pet in one transaction so two applications can never both win the same
// pet; the loser of that race gets an invalid transition error. Audit and
// notification side effects run after the write commits and never roll it
// back.
func (s *AdoptionService) Review(ctx context.Context, admin *models.User, applicationID uint, approve bool, reason *string) (*models.AdoptionApplication, error) {
	if approve {
		return s.approve(ctx, admin, applicationID, reason)
	}
	return s.reject(ctx, admin, applicationID, reason)
}

func (s *AdoptionService) approve(ctx context.Context, admin *models.User, applicationID uint, reason *string) (*models.AdoptionApplication, error) {
	application, pet, err := s.applications.ApproveWithPet(ctx, applicationID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, NewNotFoundError("找不到此領養申請")
		case errors.Is(err, repository.ErrApplicationNotPending):
			return nil, NewInvalidTransitionError("此申請已審核完畢")
		case errors.Is(err, repository.ErrPetNotAvailable):
			return nil, NewInvalidTransitionError("此毛孩已被領養，無法核准申請")
		}
		return nil, NewInternalError("無法核准領養申請", err)
	}

	s.recordDecision(ctx, admin, application, pet, true, reason,
		models.ApplicationStatusPending, models.PetStatusAvailable)
	s.notifyDecision(application, pet, true, reason)

	return application, nil
}

func (s *AdoptionService) reject(ctx context.Context, admin *models.User, applicationID uint, reason *string) (*models.AdoptionApplication, error) {
	application, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到此領養申請")
		}
		return nil, NewInternalError("無法讀取領養申請", err)
	}

	fsm := statemachine.NewApplicationFSM(application)
	if err := fsm.Reject(ctx); err != nil {
		return nil, NewInvalidTransitionError("此申請已審核完畢").
			WithDetail("current_status", application.Status)
	}
	application.ReviewReason = reason

	if err := s.applications.Update(ctx, application); err != nil {
		return nil, NewInternalError("無法更新領養申請", err)
	}

	pet, err := s.pets.FindByID(ctx, application.PetID)
	if err != nil {
		logger.Log.Error("failed to load pet for rejected application",
			"application_id", application.ID, "error", err)
	}

	s.recordDecision(ctx, admin, application, pet, false, reason,
		models.ApplicationStatusPending, "")
	s.notifyDecision(application, pet, false, reason)

	return application, nil
}

func (s *AdoptionService) recordDecision(ctx context.Context, admin *models.User, application *models.AdoptionApplication, pet *models.Pet, approved bool, reason *string, prevAppStatus, prevPetStatus string) {
	actionType := models.AuditAdoptionApprove
	action := "approve"
	if !approved {
		actionType = models.AuditAdoptionReject
		action = "reject"
	}

	metadata := models.JSONMap{
		"pet_id":       application.PetID,
		"applicant_id": application.ApplicantID,
	}
	if pet != nil {
		metadata["pet_name"] = pet.Name
		if approved {
			metadata["pet_previous_status"] = prevPetStatus
			metadata["pet_new_status"] = pet.Status
		}
	}

	s.audits.Record(ctx, AuditEntry{
		ActionType:     actionType,
		Actor:          admin,
		TargetID:       application.ID,
		TargetType:     models.AuditTargetAdoption,
		Action:         action,
		Reason:         reason,
		PreviousStatus: prevAppStatus,
		NewStatus:      application.Status,
		Metadata:       metadata,
	})
}

// notifyDecision resolves the admin broadcast for the application and sends
// a directed notification plus an email to the applicant, off the request
// path. Delivery failures are logged, never surfaced to the reviewer.
func (s *AdoptionService) notifyDecision(application *models.AdoptionApplication, pet *models.Pet, approved bool, reason *string) {
	applicationID := application.ID
	applicantID := application.ApplicantID
	applicantEmail := application.Email
	applicantName := application.ApplicantName

	petID := application.PetID
	petName := ""
	if pet != nil {
		petName = pet.Name
	}

	reasonText := ""
	if reason != nil {
		reasonText = *reason
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.notifications.ResolveApplicationBroadcasts(ctx, models.RoleAdmin, applicationID); err != nil {
			logger.Log.Error("failed to resolve application broadcasts",
				"application_id", applicationID, "error", err)
		}

		input := NotificationInput{
			PetID:         &petID,
			ApplicationID: &applicationID,
		}
		if approved {
			input.Title = "領養申請已通過"
			input.Message = fmt.Sprintf("恭喜！您對「%s」的領養申請已通過審核。", petName)
			input.NotificationType = models.NotificationTypeAdoptionApproved
		} else {
			input.Title = "領養申請未通過"
			input.Message = fmt.Sprintf("很遺憾，您對「%s」的領養申請未通過審核。", petName)
			if reasonText != "" {
				input.Message += "原因：" + reasonText
			}
			input.NotificationType = models.NotificationTypeAdoptionRejected
		}
		if err := s.notifications.NotifyUser(ctx, applicantID, input); err != nil {
			logger.Log.Error("failed to notify applicant",
				"application_id", applicationID, "error", err)
		}

		if err := s.email.SendAdoptionDecision(applicantEmail, applicantName, petName, approved, reasonText); err != nil {
			logger.Log.Error("failed to email applicant",
				"application_id", applicationID, "error", err)
		}
		return nil
	})
}

// FindByID returns an application with its pet and applicant
func (s *AdoptionService) FindByID(ctx context.Context, id uint) (*models.AdoptionApplication, error) {
	application, err := s.applications.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到此領養申請")
		}
		return nil, NewInternalError("無法讀取領養申請", err)
	}
	return application, nil
}

// ListByApplicant returns a user's own applications
func (s *AdoptionService) ListByApplicant(ctx context.Context, applicantID uint) ([]models.AdoptionApplication, error) {
	applications, err := s.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, NewInternalError("無法讀取領養申請", err)
	}
	return applications, nil
}

// List returns applications matching the query, for reviewers
func (s *AdoptionService) List(ctx context.Context, query *repository.ListQuery) ([]models.AdoptionApplication, int64, error) {
	applications, total, err := s.applications.List(ctx, query)
	if err != nil {
		return nil, 0, NewInternalError("無法讀取領養申請", err)
	}
	return applications, total, nil
}
