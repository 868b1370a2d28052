package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/middleware"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/services"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Pet          *PetHandler
	Adoption     *AdoptionHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Shelter      *ShelterHandler
}

// New wires every handler with its services
func New(svcs *services.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svcs.Auth, svcs.User),
		User:         NewUserHandler(svcs.User),
		Pet:          NewPetHandler(svcs.Pet),
		Adoption:     NewAdoptionHandler(svcs.Adoption),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit, svcs.Export),
		Shelter:      NewShelterHandler(svcs.Shelter),
	}
}

// statusFor maps service error codes to HTTP statuses.
func statusFor(code services.ErrorCode) int {
	switch code {
	case services.CodeValidation:
		return http.StatusBadRequest
	case services.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case services.CodeStatus:
		return http.StatusForbidden
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeConflict, services.CodeInvalidTransition, services.CodeUnavailable:
		return http.StatusConflict
	case services.CodeLocked:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error as JSON with its mapped status
func respondError(c *gin.Context, err error) {
	code := services.CodeOf(err)
	body := gin.H{
		"error": err.Error(),
		"code":  code,
	}
	if detail := services.DetailOf(err); detail != nil {
		body["detail"] = detail
	}
	c.JSON(statusFor(code), body)
}

// listQueryFrom builds a ListQuery from request query parameters
func listQueryFrom(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		query.Page = v
	}
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 && v <= 100 {
		query.PerPage = v
	}
	query.Search = c.Query("search")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	return query
}

// formFiles extracts uploaded files for a multipart field, tolerating a
// missing form.
func formFiles(form *multipart.Form, field string) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	return form.File[field]
}

// adminFromContext reconstructs the acting admin from the request identity.
// Only identity fields carried in the token are populated.
func adminFromContext(c *gin.Context) *models.User {
	return &models.User{
		ID:    middleware.GetUserID(c),
		Email: middleware.GetUserEmail(c),
		Role:  middleware.GetUserRole(c),
	}
}

// HealthCheck godoc
// @Summary Health check
// @Description Returns service health status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
