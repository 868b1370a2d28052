package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/services"
)

type mockShelterRepo struct {
	repository.ShelterRepository
	mockFindByID func(ctx context.Context, id uint) (*models.ShelterSite, error)
	mockList     func(ctx context.Context, region string) ([]models.ShelterSite, error)
}

func (m *mockShelterRepo) FindByID(ctx context.Context, id uint) (*models.ShelterSite, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockShelterRepo) List(ctx context.Context, region string) ([]models.ShelterSite, error) {
	return m.mockList(ctx, region)
}

func shelterRouter(repo repository.ShelterRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewShelterHandler(services.NewShelterService(repo))

	router := gin.New()
	router.GET("/shelters", handler.List)
	router.GET("/shelters/:id", handler.Get)
	return router
}

func TestShelterHandler_List(t *testing.T) {
	repo := &mockShelterRepo{
		mockList: func(ctx context.Context, region string) ([]models.ShelterSite, error) {
			assert.Equal(t, "台北市", region)
			return []models.ShelterSite{{ID: 1, Name: "臺北市動物之家", Region: "台北市"}}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shelters?region=台北市", nil)
	shelterRouter(repo).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var shelters []models.ShelterSite
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shelters))
	require.Len(t, shelters, 1)
	assert.Equal(t, "臺北市動物之家", shelters[0].Name)
}

func TestShelterHandler_GetNotFound(t *testing.T) {
	repo := &mockShelterRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.ShelterSite, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shelters/42", nil)
	shelterRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShelterHandler_GetBadID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shelters/abc", nil)
	shelterRouter(&mockShelterRepo{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code services.ErrorCode
		want int
	}{
		{services.CodeValidation, http.StatusBadRequest},
		{services.CodeInvalidCredentials, http.StatusUnauthorized},
		{services.CodeStatus, http.StatusForbidden},
		{services.CodeNotFound, http.StatusNotFound},
		{services.CodeConflict, http.StatusConflict},
		{services.CodeInvalidTransition, http.StatusConflict},
		{services.CodeUnavailable, http.StatusConflict},
		{services.CodeLocked, http.StatusLocked},
		{services.CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.code))
	}
}
