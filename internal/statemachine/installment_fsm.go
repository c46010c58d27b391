package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/looplab/fsm"
)

// InstallmentFSM wraps an installment with its state machine. The machine starts
// from the effective status, so a stale Pending row past grace behaves as Overdue.
type InstallmentFSM struct {
	installment *models.Installment
	fsm         *fsm.FSM
}

// NewInstallmentFSM creates a new installment state machine evaluated at now
func NewInstallmentFSM(installment *models.Installment, now time.Time) *InstallmentFSM {
	ifsm := &InstallmentFSM{
		installment: installment,
	}

	ifsm.fsm = fsm.NewFSM(
		installment.EffectiveStatus(now),
		fsm.Events{
			// pending/overdue → paid
			{Name: "pay", Src: []string{models.InstallmentStatusPending, models.InstallmentStatusOverdue}, Dst: models.InstallmentStatusPaid},

			// pending → overdue
			{Name: "mark_overdue", Src: []string{models.InstallmentStatusPending}, Dst: models.InstallmentStatusOverdue},

			// overdue → defaulted
			{Name: "default", Src: []string{models.InstallmentStatusOverdue}, Dst: models.InstallmentStatusDefaulted},

			// pending/overdue → cancelled
			{Name: "cancel", Src: []string{models.InstallmentStatusPending, models.InstallmentStatusOverdue}, Dst: models.InstallmentStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// Pay transitions installment to paid state
func (i *InstallmentFSM) Pay(ctx context.Context) error {
	return i.transition(ctx, "pay")
}

// MarkOverdue transitions installment to overdue state
func (i *InstallmentFSM) MarkOverdue(ctx context.Context) error {
	return i.transition(ctx, "mark_overdue")
}

// Default writes the installment off
func (i *InstallmentFSM) Default(ctx context.Context) error {
	return i.transition(ctx, "default")
}

// Cancel transitions installment to cancelled state
func (i *InstallmentFSM) Cancel(ctx context.Context) error {
	return i.transition(ctx, "cancel")
}

func (i *InstallmentFSM) transition(ctx context.Context, event string) error {
	if !i.fsm.Can(event) {
		return fmt.Errorf("%w: installment %s cannot %s while %s", ErrIllegalTransition, i.installment.ID, event, i.fsm.Current())
	}

	if err := fire(ctx, i.fsm, event); err != nil {
		return fmt.Errorf("failed to %s installment: %w", event, err)
	}

	i.installment.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InstallmentFSM) Current() string {
	return i.fsm.Current()
}
