package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/pawhome/pawhome-api/internal/models"
)

// PetFSM wraps a pet listing with its review state machine
type PetFSM struct {
	pet *models.Pet
	fsm *fsm.FSM
}

// NewPetFSM creates a new pet listing state machine
func NewPetFSM(pet *models.Pet) *PetFSM {
	p := &PetFSM{
		pet: pet,
	}

	p.fsm = fsm.NewFSM(
		pet.Status,
		fsm.Events{
			// pending_review → available
			{Name: "approve", Src: []string{models.PetStatusPendingReview}, Dst: models.PetStatusAvailable},

			// pending_review → rejected
			{Name: "reject", Src: []string{models.PetStatusPendingReview}, Dst: models.PetStatusRejected},

			// available → adopted (only through application approval)
			{Name: "adopt", Src: []string{models.PetStatusAvailable}, Dst: models.PetStatusAdopted},
		},
		fsm.Callbacks{},
	)

	return p
}

// Approve transitions the listing from pending review to available
func (p *PetFSM) Approve(ctx context.Context) error {
	if !p.pet.MayReview() {
		return fmt.Errorf("pet cannot be approved in current state: %s", p.pet.Status)
	}

	if err := p.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve pet: %w", err)
	}

	p.pet.Status = p.fsm.Current()
	return nil
}

// Reject transitions the listing from pending review to rejected
func (p *PetFSM) Reject(ctx context.Context) error {
	if !p.pet.MayReview() {
		return fmt.Errorf("pet cannot be rejected in current state: %s", p.pet.Status)
	}

	if err := p.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject pet: %w", err)
	}

	p.pet.Status = p.fsm.Current()
	return nil
}

// Adopt transitions the listing from available to adopted
func (p *PetFSM) Adopt(ctx context.Context) error {
	if !p.pet.MayAdopt() {
		return fmt.Errorf("pet cannot be adopted in current state: %s", p.pet.Status)
	}

	if err := p.fsm.Event(ctx, "adopt"); err != nil {
		return fmt.Errorf("failed to adopt pet: %w", err)
	}

	p.pet.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PetFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PetFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
