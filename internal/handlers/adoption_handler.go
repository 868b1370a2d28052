package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/middleware"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/services"
)

// AdoptionHandler handles adoption application endpoints
type AdoptionHandler struct {
	adoptions *services.AdoptionService
}

// NewAdoptionHandler creates a new adoption handler
func NewAdoptionHandler(adoptions *services.AdoptionService) *AdoptionHandler {
	return &AdoptionHandler{adoptions: adoptions}
}

// Submit godoc
// @Summary Apply to adopt a pet
// @Description Files an application for an available pet. An unavailable pet
// @Description rejects the application with its current status.
// @Tags adoptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.ApplicationInput true "Application"
// @Success 201 {object} models.ApplicationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /adoptions [post]
func (h *AdoptionHandler) Submit(c *gin.Context) {
	var input services.ApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請確認輸入欄位", "code": services.CodeValidation})
		return
	}

	application, err := h.adoptions.Submit(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application.ToResponse())
}

// Get godoc
// @Summary Get an application
// @Tags adoptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} models.ApplicationResponse
// @Failure 404 {object} map[string]interface{}
// @Router /adoptions/{id} [get]
func (h *AdoptionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的編號", "code": services.CodeValidation})
		return
	}

	application, err := h.adoptions.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	// Applicants see only their own applications; admins see all.
	if application.ApplicantID != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "無權限查看此申請"})
		return
	}

	c.JSON(http.StatusOK, application.ToResponse())
}

// Mine godoc
// @Summary List the caller's own applications
// @Tags adoptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ApplicationResponse
// @Router /adoptions/mine [get]
func (h *AdoptionHandler) Mine(c *gin.Context) {
	applications, err := h.adoptions.ListByApplicant(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.ApplicationResponse, 0, len(applications))
	for i := range applications {
		items = append(items, applications[i].ToResponse())
	}
	c.JSON(http.StatusOK, items)
}

// List godoc
// @Summary List applications for review
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param pet_id query string false "Pet filter"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/adoptions [get]
func (h *AdoptionHandler) List(c *gin.Context) {
	query := listQueryFrom(c)
	if v := c.Query("status"); v != "" {
		query.Filters["status"] = v
	}
	if v := c.Query("pet_id"); v != "" {
		query.Filters["pet_id"] = v
	}

	applications, total, err := h.adoptions.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.ApplicationResponse, 0, len(applications))
	for i := range applications {
		items = append(items, applications[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"applications": items, "total": total})
}

// Review godoc
// @Summary Review an application
// @Description Approves or rejects a pending application. Approval marks the
// @Description pet adopted in the same transaction, so a second approval for
// @Description the same pet fails.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param input body reviewRequest true "Decision"
// @Success 200 {object} models.ApplicationResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /admin/adoptions/{id}/review [post]
func (h *AdoptionHandler) Review(c *gin.Context) {
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
	application, err := h.adoptions.Review(c.Request.Context(), admin, uint(id), req.Approve, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, application.ToResponse())
}
