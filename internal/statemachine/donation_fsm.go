package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/looplab/fsm"
)

// ErrIllegalTransition is returned when an event does not apply to the current state.
var ErrIllegalTransition = errors.New("illegal state transition")

// DonationFSM wraps a donation with its state machine
type DonationFSM struct {
	donation *models.Donation
	fsm      *fsm.FSM
}

// NewDonationFSM creates a new donation state machine
func NewDonationFSM(donation *models.Donation) *DonationFSM {
	dfsm := &DonationFSM{
		donation: donation,
	}

	dfsm.fsm = fsm.NewFSM(
		donation.Status,
		fsm.Events{
			// pledged/partial → partial
			{Name: "pay_partial", Src: []string{models.DonationStatusPledged, models.DonationStatusPartial}, Dst: models.DonationStatusPartial},

			// pledged/partial → completed
			{Name: "complete", Src: []string{models.DonationStatusPledged, models.DonationStatusPartial}, Dst: models.DonationStatusCompleted},

			// pledged/partial → cancelled
			{Name: "cancel", Src: []string{models.DonationStatusPledged, models.DonationStatusPartial}, Dst: models.DonationStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return dfsm
}

// ApplyPayment moves the donation to the status implied by its paid amount.
// Call it after AmountPaid has been updated.
func (d *DonationFSM) ApplyPayment(ctx context.Context) error {
	if !d.donation.MayReceivePayment() {
		return fmt.Errorf("%w: donation %s is %s", ErrIllegalTransition, d.donation.ID, d.donation.Status)
	}

	event := "pay_partial"
	if d.donation.DerivedStatus() == models.DonationStatusCompleted {
		event = "complete"
	}

	if err := fire(ctx, d.fsm, event); err != nil {
		return fmt.Errorf("failed to apply payment: %w", err)
	}

	d.donation.Status = d.fsm.Current()
	return nil
}

// Cancel transitions donation to cancelled state
func (d *DonationFSM) Cancel(ctx context.Context) error {
	if !d.donation.MayCancel() {
		return fmt.Errorf("%w: donation %s is %s", ErrIllegalTransition, d.donation.ID, d.donation.Status)
	}

	if err := fire(ctx, d.fsm, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel donation: %w", err)
	}

	d.donation.Status = d.fsm.Current()
	return nil
}

// Current returns the current state
func (d *DonationFSM) Current() string {
	return d.fsm.Current()
}

// Can checks if a transition is possible
func (d *DonationFSM) Can(event string) bool {
	return d.fsm.Can(event)
}

// fire runs an event, treating a self-transition (Partial → Partial) as success.
func fire(ctx context.Context, f *fsm.FSM, event string) error {
	err := f.Event(ctx, event)
	if err == nil {
		return nil
	}

	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	}
	return err
}
