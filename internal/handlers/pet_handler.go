package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/middleware"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/services"
)

// PetHandler handles pet listing endpoints
type PetHandler struct {
	pets *services.PetService
}

// NewPetHandler creates a new pet handler
func NewPetHandler(pets *services.PetService) *PetHandler {
	return &PetHandler{pets: pets}
}

// Search godoc
// @Summary Search available pets
// @Description Returns available listings. Age accepts a number or the
// @Description buckets young, adult and senior; location matches by prefix.
// @Tags pets
// @Produce json
// @Param species query string false "Species filter"
// @Param gender query string false "Gender filter"
// @Param age query string false "Age or age bucket"
// @Param location query string false "Location prefix"
// @Param sort_by query string false "Sort field: created_at, name, location"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /pets [get]
func (h *PetHandler) Search(c *gin.Context) {
	query := repository.NewPetSearchQuery()
	query.Species = c.Query("species")
	query.Gender = c.Query("gender")
	query.Age = c.Query("age")
	query.Location = c.Query("location")
	if v := c.Query("sort_by"); v != "" {
		query.SortBy = v
	}
	if v := c.Query("sort_order"); v != "" {
		query.SortOrder = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		query.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil && v > 0 && v <= 100 {
		query.PageSize = v
	}

	page, err := h.pets.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.PetResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, page.Items[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"pets":        items,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"has_next":    page.HasNext,
		"has_prev":    page.HasPrev,
	})
}

// Get godoc
// @Summary Get a pet listing
// @Tags pets
// @Produce json
// @Param id path int true "Pet ID"
// @Success 200 {object} models.PetResponse
// @Failure 404 {object} map[string]interface{}
// @Router /pets/{id} [get]
func (h *PetHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的編號", "code": services.CodeValidation})
		return
	}

	pet, err := h.pets.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pet.ToResponse())
}

// Submit godoc
// @Summary Submit a pet for adoption
// @Description Creates a listing awaiting moderation. Accepts multipart form
// @Description data with up to photo files under the "photos" field.
// @Tags pets
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /pets [post]
func (h *PetHandler) Submit(c *gin.Context) {
	var input services.PetSubmitInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請確認輸入欄位", "code": services.CodeValidation})
		return
	}

	form, _ := c.MultipartForm()
	files := formFiles(form, "photos")

	pet, uploads, err := h.pets.Submit(c.Request.Context(), middleware.GetUserID(c), input, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"pet":    pet.ToResponse(),
		"photos": uploads,
	})
}

// MyListings godoc
// @Summary List the caller's own listings
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PetResponse
// @Router /pets/mine [get]
func (h *PetHandler) MyListings(c *gin.Context) {
	pets, err := h.pets.ListByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.PetResponse, 0, len(pets))
	for i := range pets {
		items = append(items, pets[i].ToResponse())
	}
	c.JSON(http.StatusOK, items)
}

// ListPendingReview godoc
// @Summary List listings awaiting moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/pets/pending [get]
func (h *PetHandler) ListPendingReview(c *gin.Context) {
	query := listQueryFrom(c)

	pets, total, err := h.pets.ListPendingReview(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.PetResponse, 0, len(pets))
	for i := range pets {
		items = append(items, pets[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"pets": items, "total": total})
}

type reviewRequest struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason"`
}

// Review godoc
// @Summary Review a pending listing
// @Description Approves or rejects a listing awaiting moderation. The
// @Description decision is recorded in the audit trail.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pet ID"
// @Param input body reviewRequest true "Decision"
// @Success 200 {object} models.PetResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /admin/pets/{id}/review [post]
func (h *PetHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的編號", "code": services.CodeValidation})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請確認輸入欄位", "code": services.CodeValidation})
		return
	}

	admin := adminFromContext(c)
	pet, err := h.pets.Review(c.Request.Context(), admin, uint(id), req.Approve, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pet.ToResponse())
}
