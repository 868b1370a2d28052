package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/config"
	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
)

type mockApplicationRepo struct {
	repository.ApplicationRepository
	mockFindByID       func(ctx context.Context, id uint) (*models.AdoptionApplication, error)
	mockCreate         func(ctx context.Context, application *models.AdoptionApplication) error
	mockUpdate         func(ctx context.Context, application *models.AdoptionApplication) error
	mockApproveWithPet func(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error)
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id uint) (*models.AdoptionApplication, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockApplicationRepo) Create(ctx context.Context, application *models.AdoptionApplication) error {
	return m.mockCreate(ctx, application)
}

func (m *mockApplicationRepo) Update(ctx context.Context, application *models.AdoptionApplication) error {
	return m.mockUpdate(ctx, application)
}

func (m *mockApplicationRepo) ApproveWithPet(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error) {
	return m.mockApproveWithPet(ctx, applicationID)
}

func newAdoptionServiceForTest(applications repository.ApplicationRepository, pets repository.PetRepository, audits *mockAuditRepo, notifications *mockNotificationRepo, worker *jobs.Worker) *AdoptionService {
	return NewAdoptionService(
		applications,
		pets,
		NewAuditService(audits),
		NewNotificationService(notifications),
		NewEmailService(&config.Config{FromEmail: "noreply@pawhome.tw"}),
		worker,
	)
}

func validApplication() ApplicationInput {
	return ApplicationInput{
		PetID:         10,
		ApplicantName: "王小明",
		Phone:         "0912345678",
		Email:         "ming@example.com",
		CarePlan:      "每日散步兩次",
		AgreePrivacy:  true,
	}
}

func TestAdoptionService_SubmitBroadcastsToAdmins(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	pet := &models.Pet{ID: 10, OwnerID: 7, Name: "小黑", Status: models.PetStatusAvailable}
	applications := &mockApplicationRepo{
		mockCreate: func(ctx context.Context, application *models.AdoptionApplication) error {
			application.ID = 20
			return nil
		},
	}
	pets := &mockPetRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Pet, error) { return pet, nil },
	}
	notifications := newMockNotificationRepo()
	svc := newAdoptionServiceForTest(applications, pets, &mockAuditRepo{}, notifications, worker)

	application, err := svc.Submit(context.Background(), 5, validApplication())

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, application.Status)

	broadcast := notifications.awaitCreate(t)
	assert.Nil(t, broadcast.UserID)
	require.NotNil(t, broadcast.Role)
	assert.Equal(t, models.RoleAdmin, *broadcast.Role)
	require.NotNil(t, broadcast.ApplicationID)
	assert.Equal(t, uint(20), *broadcast.ApplicationID)
}

func TestAdoptionService_SubmitUnavailablePet(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	for _, status := range []string{models.PetStatusPendingReview, models.PetStatusRejected, models.PetStatusAdopted} {
		t.Run(status, func(t *testing.T) {
			pet := &models.Pet{ID: 10, Status: status}
			applications := &mockApplicationRepo{
				mockCreate: func(ctx context.Context, application *models.AdoptionApplication) error {
					t.Fatal("an application for an unavailable pet must not be created")
					return nil
				},
			}
			pets := &mockPetRepo{
				mockFindByID: func(ctx context.Context, id uint) (*models.Pet, error) { return pet, nil },
			}
			svc := newAdoptionServiceForTest(applications, pets, &mockAuditRepo{}, newMockNotificationRepo(), worker)

			_, err := svc.Submit(context.Background(), 5, validApplication())

			assert.Equal(t, CodeUnavailable, CodeOf(err))
			detail := DetailOf(err)
			require.NotNil(t, detail)
			assert.Equal(t, status, detail["current_status"])
		})
	}
}

func TestAdoptionService_SubmitMissingPet(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	pets := &mockPetRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Pet, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newAdoptionServiceForTest(&mockApplicationRepo{}, pets, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	_, err := svc.Submit(context.Background(), 5, validApplication())

	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestAdoptionService_SubmitOwnPet(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	pet := &models.Pet{ID: 10, OwnerID: 5, Status: models.PetStatusAvailable}
	pets := &mockPetRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Pet, error) { return pet, nil },
	}
	svc := newAdoptionServiceForTest(&mockApplicationRepo{}, pets, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	_, err := svc.Submit(context.Background(), 5, validApplication())

	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestAdoptionService_ApprovePairsApplicationAndPet(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	applications := &mockApplicationRepo{
		mockApproveWithPet: func(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error) {
			application := &models.AdoptionApplication{
				ID: applicationID, PetID: 10, ApplicantID: 5,
				ApplicantName: "王小明", Email: "ming@example.com",
				Status: models.ApplicationStatusApproved,
			}
			pet := &models.Pet{ID: 10, Name: "小黑", Status: models.PetStatusAdopted}
			return application, pet, nil
		},
	}
	audits := &mockAuditRepo{}
	notifications := newMockNotificationRepo()
	svc := newAdoptionServiceForTest(applications, &mockPetRepo{}, audits, notifications, worker)

	admin := &models.User{ID: 1, Email: "admin@pawhome.tw", Role: models.RoleAdmin}
	application, err := svc.Review(context.Background(), admin, 20, true, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, application.Status)

	require.Len(t, audits.created, 1)
	entry := audits.created[0]
	assert.Equal(t, models.AuditAdoptionApprove, entry.ActionType)
	assert.Equal(t, models.ApplicationStatusPending, entry.PreviousStatus)
	assert.Equal(t, models.ApplicationStatusApproved, entry.NewStatus)
	assert.Equal(t, models.PetStatusAvailable, entry.Metadata["pet_previous_status"])
	assert.Equal(t, models.PetStatusAdopted, entry.Metadata["pet_new_status"])

	notification := notifications.awaitCreate(t)
	require.NotNil(t, notification.UserID)
	assert.Equal(t, uint(5), *notification.UserID)
}

func TestAdoptionService_ApproveLosesAvailabilityRace(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	applications := &mockApplicationRepo{
		mockApproveWithPet: func(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error) {
			return nil, nil, repository.ErrPetNotAvailable
		},
	}
	audits := &mockAuditRepo{}
	svc := newAdoptionServiceForTest(applications, &mockPetRepo{}, audits, newMockNotificationRepo(), worker)

	_, err := svc.Review(context.Background(), &models.User{ID: 1}, 21, true, nil)

	assert.Equal(t, CodeInvalidTransition, CodeOf(err))
	assert.Empty(t, audits.created, "a refused approval must not be audited as a decision")
}

func TestAdoptionService_ApproveAlreadyDecided(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	applications := &mockApplicationRepo{
		mockApproveWithPet: func(ctx context.Context, applicationID uint) (*models.AdoptionApplication, *models.Pet, error) {
			return nil, nil, repository.ErrApplicationNotPending
		},
	}
	svc := newAdoptionServiceForTest(applications, &mockPetRepo{}, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	_, err := svc.Review(context.Background(), &models.User{ID: 1}, 20, true, nil)

	assert.Equal(t, CodeInvalidTransition, CodeOf(err))
}

func TestAdoptionService_RejectKeepsPetAvailable(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	application := &models.AdoptionApplication{
		ID: 20, PetID: 10, ApplicantID: 5,
		ApplicantName: "王小明", Email: "ming@example.com",
		Status: models.ApplicationStatusPending,
	}
	pet := &models.Pet{ID: 10, Name: "小黑", Status: models.PetStatusAvailable}

	updated := false
	applications := &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.AdoptionApplication, error) {
			return application, nil
		},
		mockUpdate: func(ctx context.Context, a *models.AdoptionApplication) error {
			updated = true
			return nil
		},
	}
	pets := &mockPetRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Pet, error) { return pet, nil },
		mockUpdate: func(ctx context.Context, p *models.Pet) error {
			t.Fatal("rejecting an application must not touch the pet")
			return nil
		},
	}
	audits := &mockAuditRepo{}
	notifications := newMockNotificationRepo()
	svc := newAdoptionServiceForTest(applications, pets, audits, notifications, worker)

	reason := "居住環境不適合"
	result, err := svc.Review(context.Background(), &models.User{ID: 1}, 20, false, &reason)

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, models.ApplicationStatusRejected, result.Status)
	assert.Equal(t, models.PetStatusAvailable, pet.Status)

	require.Len(t, audits.created, 1)
	assert.Equal(t, models.AuditAdoptionReject, audits.created[0].ActionType)

	notification := notifications.awaitCreate(t)
	assert.Contains(t, notification.Message, reason)
}

func TestAdoptionService_RejectAlreadyDecided(t *testing.T) {
	worker := jobs.NewWorker(1, 10)
	defer worker.Shutdown(time.Second)

	application := &models.AdoptionApplication{ID: 20, Status: models.ApplicationStatusApproved}
	applications := &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.AdoptionApplication, error) {
			return application, nil
		},
	}
	svc := newAdoptionServiceForTest(applications, &mockPetRepo{}, &mockAuditRepo{}, newMockNotificationRepo(), worker)

	_, err := svc.Review(context.Background(), &models.User{ID: 1}, 20, false, nil)

	assert.Equal(t, CodeInvalidTransition, CodeOf(err))
	assert.Equal(t, models.ApplicationStatusApproved, application.Status)
}
