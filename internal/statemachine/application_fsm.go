package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/pawhome/pawhome-api/internal/models"
)

// ApplicationFSM wraps an adoption application with its state machine
type ApplicationFSM struct {
	application *models.AdoptionApplication
	fsm         *fsm.FSM
}

// NewApplicationFSM creates a new adoption application state machine
func NewApplicationFSM(application *models.AdoptionApplication) *ApplicationFSM {
	a := &ApplicationFSM{
		application: application,
	}

	a.fsm = fsm.NewFSM(
		application.Status,
		fsm.Events{
			// pending → approved
			{Name: "approve", Src: []string{models.ApplicationStatusPending}, Dst: models.ApplicationStatusApproved},

			// pending → rejected
			{Name: "reject", Src: []string{models.ApplicationStatusPending}, Dst: models.ApplicationStatusRejected},
		},
		fsm.Callbacks{},
	)

	return a
}

// Approve transitions the application to approved
func (a *ApplicationFSM) Approve(ctx context.Context) error {
	if !a.application.MayReview() {
		return fmt.Errorf("application cannot be approved in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Reject transitions the application to rejected
func (a *ApplicationFSM) Reject(ctx context.Context) error {
	if !a.application.MayReview() {
		return fmt.Errorf("application cannot be rejected in current state: %s", a.application.Status)
	}

	if err := a.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject application: %w", err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *ApplicationFSM) Current() string {
	return a.fsm.Current()
}

// Can checks if a transition is possible
func (a *ApplicationFSM) Can(event string) bool {
	return a.fsm.Can(event)
}
