package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/jobs"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/statemachine"
	"github.com/pawhome/pawhome-api/internal/storage"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

// PetService handles listing submission, search and moderation review
type PetService struct {
	pets          repository.PetRepository
	audits        *AuditService
	notifications *NotificationService
	images        *ImageService
	store         storage.Storage
	worker        *jobs.Worker
}

// NewPetService creates a new pet service
func NewPetService(
	pets repository.PetRepository,
	audits *AuditService,
	notifications *NotificationService,
	images *ImageService,
	store storage.Storage,
	worker *jobs.Worker,
) *PetService {
	return &PetService{
		pets:          pets,
		audits:        audits,
		notifications: notifications,
		images:        images,
		store:         store,
		worker:        worker,
	}
}

// PetSubmitInput holds new listing fields
type PetSubmitInput struct {
	Name         string  `form:"name" binding:"required"`
	Species      string  `form:"species" binding:"required"`
	Breed        *string `form:"breed"`
	Age          *int    `form:"age"`
	Gender       string  `form:"gender"`
	Location     string  `form:"location" binding:"required"`
	Description  string  `form:"description" binding:"required"`
	IsVaccinated bool    `form:"is_vaccinated"`
	IsNeutered   bool    `form:"is_neutered"`
	IsHealthy    bool    `form:"is_healthy"`
}

// PhotoUploadResult reports how many photos made it into storage
type PhotoUploadResult struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
}

// Submit creates a listing awaiting moderation. Photos are uploaded one at a
// time; the submission succeeds as long as at least one photo lands, or no
// photos were given at all.
func (s *PetService) Submit(ctx context.Context, ownerID uint, input PetSubmitInput, photos []*multipart.FileHeader) (*models.Pet, *PhotoUploadResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, NewValidationError("請輸入毛孩名稱")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, nil, NewValidationError("請輸入毛孩介紹")
	}

	breed := ""
	if input.Breed != nil {
		breed = *input.Breed
	}
	if err := checkForbiddenContent(input.Name, input.Description, breed); err != nil {
		return nil, nil, err
	}

	pet := &models.Pet{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(input.Name),
		Species:      input.Species,
		Breed:        input.Breed,
		Age:          input.Age,
		Gender:       input.Gender,
		Location:     strings.TrimSpace(input.Location),
		Description:  input.Description,
		IsVaccinated: input.IsVaccinated,
		IsNeutered:   input.IsNeutered,
		IsHealthy:    input.IsHealthy,
		Status:       models.PetStatusPendingReview,
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, nil, NewInternalError("無法建立送養資訊", err)
	}

	result := s.uploadPhotos(ctx, pet.ID, photos)
	if len(photos) > 0 && result.Uploaded == 0 {
		return pet, result, NewStorageError("照片上傳失敗，請稍後再試", nil).
			WithDetail("failed", result.Failed)
	}

	return pet, result, nil
}

// uploadPhotos stores photos sequentially. One bad file does not abort the
// rest; failures are counted and logged.
func (s *PetService) uploadPhotos(ctx context.Context, petID uint, photos []*multipart.FileHeader) *PhotoUploadResult {
	result := &PhotoUploadResult{}
	dir := fmt.Sprintf("pets/%d", petID)

	for i, photo := range photos {
		if err := storage.ValidateImage(photo); err != nil {
			result.Failed++
			logger.Log.Warn("rejected photo upload", "pet_id", petID, "error", err)
			continue
		}

		path, err := s.store.Upload(photo, dir)
		if err != nil {
			result.Failed++
			logger.Log.Error("photo upload failed", "pet_id", petID, "error", err)
			continue
		}

		record := &models.PetPhoto{
			PetID:       petID,
			URL:         s.store.URL(path),
			StoragePath: path,
			Order:       i,
		}

		// Thumbnail generation is best effort. The full image still serves
		// when it fails.
		if thumbBytes, err := s.images.Thumbnail(photo); err == nil {
			thumbName := fmt.Sprintf("thumb_%d.jpg", i)
			if thumbPath, err := s.store.UploadBytes(thumbBytes, dir, thumbName); err == nil {
				thumbURL := s.store.URL(thumbPath)
				record.Thumbnail = &thumbURL
			}
		}

		if err := s.pets.AddPhoto(ctx, record); err != nil {
			result.Failed++
			logger.Log.Error("failed to save photo record", "pet_id", petID, "error", err)
			_ = s.store.Delete(path)
			continue
		}
		result.Uploaded++
	}

	return result
}

// Review applies a moderation decision to a pending listing. Both outcomes
// are audited, and the owner is notified in the background.
func (s *PetService) Review(ctx context.Context, admin *models.User, petID uint, approve bool, reason *string) (*models.Pet, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到此送養資訊")
		}
		return nil, NewInternalError("無法讀取送養資訊", err)
	}

	previousStatus := pet.Status
	fsm := statemachine.NewPetFSM(pet)

	if approve {
		err = fsm.Approve(ctx)
	} else {
		err = fsm.Reject(ctx)
	}
	if err != nil {
		return nil, NewInvalidTransitionError("此送養資訊已審核完畢").
			WithDetail("current_status", previousStatus)
	}

	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, NewInternalError("無法更新送養資訊", err)
	}

	actionType := models.AuditPetReviewApprove
	action := "approve"
	if !approve {
		actionType = models.AuditPetReviewReject
		action = "reject"
	}
	s.audits.Record(ctx, AuditEntry{
		ActionType:     actionType,
		Actor:          admin,
		TargetID:       pet.ID,
		TargetType:     models.AuditTargetPet,
		Action:         action,
		Reason:         reason,
		PreviousStatus: previousStatus,
		NewStatus:      pet.Status,
		Metadata:       models.JSONMap{"pet_name": pet.Name},
	})

	s.notifyOwnerOfReview(pet, approve, reason)

	return pet, nil
}

func (s *PetService) notifyOwnerOfReview(pet *models.Pet, approved bool, reason *string) {
	ownerID := pet.OwnerID
	petID := pet.ID
	petName := pet.Name

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		input := NotificationInput{
			PetID: &petID,
		}
		if approved {
			input.Title = "送養資訊審核通過"
			input.Message = fmt.Sprintf("您刊登的「%s」已通過審核，現在開放領養申請。", petName)
			input.NotificationType = models.NotificationTypePetApproved
		} else {
			input.Title = "送養資訊未通過審核"
			input.Message = fmt.Sprintf("您刊登的「%s」未通過審核。", petName)
			if reason != nil && *reason != "" {
				input.Message += "原因：" + *reason
			}
			input.NotificationType = models.NotificationTypePetRejected
		}
		return s.notifications.NotifyUser(ctx, ownerID, input)
	})
}

// Search returns available listings matching the query
func (s *PetService) Search(ctx context.Context, query *repository.PetSearchQuery) (repository.Page[models.Pet], error) {
	page, err := s.pets.Search(ctx, query)
	if err != nil {
		return repository.Page[models.Pet]{}, NewInternalError("無法搜尋毛孩", err)
	}
	return page, nil
}

// FindByID returns a listing with its photos and owner
func (s *PetService) FindByID(ctx context.Context, id uint) (*models.Pet, error) {
	pet, err := s.pets.FindByIDWithPhotos(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到此送養資訊")
		}
		return nil, NewInternalError("無法讀取送養資訊", err)
	}
	return pet, nil
}

// ListByOwner returns all listings submitted by a user
func (s *PetService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	pets, err := s.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewInternalError("無法讀取送養資訊", err)
	}
	return pets, nil
}

// ListPendingReview returns listings awaiting moderation
func (s *PetService) ListPendingReview(ctx context.Context, query *repository.ListQuery) ([]models.Pet, int64, error) {
	pets, total, err := s.pets.ListPendingReview(ctx, query)
	if err != nil {
		return nil, 0, NewInternalError("無法讀取待審核清單", err)
	}
	return pets, total, nil
}
