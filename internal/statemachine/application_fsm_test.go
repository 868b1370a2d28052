package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawhome/pawhome-api/internal/models"
)

func TestApplicationFSM_ApproveFromPending(t *testing.T) {
	application := &models.AdoptionApplication{Status: models.ApplicationStatusPending}
	fsm := NewApplicationFSM(application)

	err := fsm.Approve(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, application.Status)
}

func TestApplicationFSM_RejectFromPending(t *testing.T) {
	application := &models.AdoptionApplication{Status: models.ApplicationStatusPending}
	fsm := NewApplicationFSM(application)

	err := fsm.Reject(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, application.Status)
}

func TestApplicationFSM_DecidedApplicationsAreFinal(t *testing.T) {
	for _, status := range []string{models.ApplicationStatusApproved, models.ApplicationStatusRejected} {
		application := &models.AdoptionApplication{Status: status}

		assert.Error(t, NewApplicationFSM(application).Approve(context.Background()))
		assert.Error(t, NewApplicationFSM(application).Reject(context.Background()))
		assert.Equal(t, status, application.Status)
	}
}
