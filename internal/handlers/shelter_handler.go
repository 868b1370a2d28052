package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/services"
)

// ShelterHandler handles the public shelter directory
type ShelterHandler struct {
	shelters *services.ShelterService
}

// NewShelterHandler creates a new shelter handler
func NewShelterHandler(shelters *services.ShelterService) *ShelterHandler {
	return &ShelterHandler{shelters: shelters}
}

// List godoc
// @Summary List public animal shelters
// @Tags shelters
// @Produce json
// @Param region query string false "Region filter"
// @Success 200 {array} models.ShelterSite
// @Router /shelters [get]
func (h *ShelterHandler) List(c *gin.Context) {
	shelters, err := h.shelters.List(c.Request.Context(), c.Query("region"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shelters)
}

// Get godoc
// @Summary Get a shelter
// @Tags shelters
// @Produce json
// @Param id path int true "Shelter ID"
// @Success 200 {object} models.ShelterSite
// @Failure 404 {object} map[string]interface{}
// @Router /shelters/{id} [get]
func (h *ShelterHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的編號", "code": services.CodeValidation})
		return
	}

	shelter, err := h.shelters.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shelter)
}
