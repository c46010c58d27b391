package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/internal/statemachine"
	"github.com/hikmahsphere/hikmah-api/pkg/hijri"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// DonationInput is the payload for booking a donation
type DonationInput struct {
	DonorID              string          `json:"donor_id" validate:"required"`
	DonationType         string          `json:"donation_type" validate:"required,donation_type"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	PaymentMode          string          `json:"payment_mode" validate:"required,payment_mode"`
	NumberOfInstallments *int            `json:"number_of_installments"`
	Schedule             ScheduleOptions `json:"schedule"`
	DeferSchedule        bool            `json:"defer_schedule"`
	PaymentMethod        string          `json:"payment_method" validate:"required,payment_method"`
	AllocationCategory   string          `json:"allocation_category" validate:"omitempty,category"`
	NisabVerified        bool            `json:"nisab_verified"`
	IsRecurring          bool            `json:"is_recurring"`
	RecurringFrequency   *string         `json:"recurring_frequency" validate:"omitempty,recurring_frequency"`
	TaxReceiptRequested  bool            `json:"tax_receipt_requested"`
	Notes                *string         `json:"notes"`
}

// PaymentInput is a payment posted directly against a donation
type PaymentInput struct {
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method" validate:"omitempty,payment_method"`
	TransactionRef *string         `json:"transaction_ref" validate:"omitempty,max=100"`
	PaidAt         *time.Time      `json:"paid_at"`
}

// posting is one amount to book onto a donation
type posting struct {
	Amount         decimal.Decimal
	Method         string
	TransactionRef *string
	InstallmentID  *string
	PaidAt         time.Time
}

// DonationService owns the pledge amounts and the donation state machine
type DonationService struct {
	repos    *repository.Repositories
	donors   *DonorService
	schedule *ScheduleService
	audit    *AuditService
}

// NewDonationService creates a new donation service
func NewDonationService(repos *repository.Repositories, donors *DonorService, schedule *ScheduleService, audit *AuditService) *DonationService {
	return &DonationService{repos: repos, donors: donors, schedule: schedule, audit: audit}
}

// Create books a donation for an active donor. Installment-mode donations get their
// schedule in the same transaction unless DeferSchedule is set.
func (s *DonationService) Create(ctx context.Context, input DonationInput, actor Actor) (*models.Donation, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := input.AllocationCategory
	if category == "" {
		category = models.CategoryGeneral
	}

	var donation *models.Donation
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		donor, err := tx.Donor.FindByID(ctx, input.DonorID)
		if err != nil {
			return notFound(err, "donor "+input.DonorID)
		}
		if !donor.MayDonate() {
			return invalidState("donor %s is %s", donor.ID, donor.Status)
		}

		id, err := tx.Sequence.Next(ctx, models.PrefixDonation)
		if err != nil {
			return err
		}

		donation = &models.Donation{
			ID:                  id,
			DonorID:             donor.ID,
			DonationType:        input.DonationType,
			TotalAmount:         input.TotalAmount,
			Currency:            models.CurrencyINR,
			PaymentMode:         input.PaymentMode,
			PaymentMethod:       input.PaymentMethod,
			Status:              models.DonationStatusPledged,
			AmountPaid:          decimal.Zero,
			NisabVerified:       input.NisabVerified,
			AllocationCategory:  category,
			IsRecurring:         input.IsRecurring,
			RecurringFrequency:  input.RecurringFrequency,
			TaxReceiptRequested: input.TaxReceiptRequested,
			HijriYear:           hijri.Year(now),
			Notes:               input.Notes,
			CreatedBy:           actor.ID,
		}
		donation.Recalculate()

		if donation.IsInstallmentMode() {
			frequency := input.Schedule.Frequency
			if frequency == "" {
				frequency = models.FrequencyMonthly
			}
			donation.NumberOfInstallments = input.NumberOfInstallments
			donation.InstallmentFrequency = &frequency
		}

		if err := tx.Donation.Create(ctx, donation); err != nil {
			return err
		}

		if donation.IsInstallmentMode() && !input.DeferSchedule {
			installments, err := s.createSchedule(ctx, tx, donation, input.Schedule, now)
			if err != nil {
				return err
			}
			donation.Installments = installments
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[DonationService] donation created",
		"donation_id", donation.ID, "donor_id", donation.DonorID,
		"amount", donation.TotalAmount.String(), "mode", donation.PaymentMode)
	s.audit.Record(ctx, actor, models.ActionDonationCreated, models.TargetDonation, donation.ID, &donation.DonorID,
		map[string]any{
			"total_amount": donation.TotalAmount.String(),
			"payment_mode": donation.PaymentMode,
			"installments": len(donation.Installments),
		})
	return donation, nil
}

func (s *DonationService) validateCreate(input DonationInput) error {
	verr := validateStruct(input)

	checkAmount(verr, "total_amount", input.TotalAmount)

	switch input.PaymentMode {
	case models.PaymentModeInstallment:
		n := input.NumberOfInstallments
		if n == nil {
			verr.Add("number_of_installments", "required", "is required for installment mode")
		} else if *n < models.MinInstallments || *n > models.MaxInstallments {
			verr.Add("number_of_installments", "range",
				fmt.Sprintf("must be between %d and %d", models.MinInstallments, models.MaxInstallments))
		}
		if input.Schedule.Frequency == models.FrequencyCustom && input.Schedule.IntervalDays < 1 {
			verr.Add("schedule.interval_days", "required_with_custom", "must be at least 1 for a Custom frequency")
		}
	case models.PaymentModeFull:
		if input.NumberOfInstallments != nil {
			verr.Add("number_of_installments", "excluded_with_full", "must not be set for full payment mode")
		}
	}

	if input.IsRecurring && input.RecurringFrequency == nil {
		verr.Add("recurring_frequency", "required_with_recurring", "is required for a recurring donation")
	}
	if !input.IsRecurring && input.RecurringFrequency != nil {
		verr.Add("recurring_frequency", "excluded_without_recurring", "must not be set unless is_recurring is true")
	}

	return verr.OrNil()
}

// RecordPayment posts a payment directly against a donation. Open installments are
// only touched when the payment completes the donation, which settles them all; use
// MarkPaid to settle a specific installment.
func (s *DonationService) RecordPayment(ctx context.Context, donationID string, input PaymentInput, actor Actor) (*models.Donation, error) {
	verr := validateStruct(input)
	checkAmount(verr, "amount", input.Amount)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	paidAt := time.Now().UTC()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}

	var donation *models.Donation
	var completed bool
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donation, err = tx.Donation.FindByIDForUpdate(ctx, donationID)
		if err != nil {
			return notFound(err, "donation "+donationID)
		}

		method := input.PaymentMethod
		if method == "" {
			method = donation.PaymentMethod
		}

		completed, err = s.applyPayment(ctx, tx, donation, posting{
			Amount:         input.Amount,
			Method:         method,
			TransactionRef: input.TransactionRef,
			PaidAt:         paidAt,
		}, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterPayment(ctx, donation, input.Amount, completed, nil, actor)
	return donation, nil
}

// applyPayment books p onto a donation that the caller has locked in tx. It appends
// a ledger row, moves the state machine and checks that amount_paid still equals the
// ledger sum. On completion it settles the remaining open installments and credits
// the donor. It reports whether the donation completed.
func (s *DonationService) applyPayment(ctx context.Context, tx *repository.Repositories, donation *models.Donation, p posting, actor Actor) (bool, error) {
	if !donation.MayReceivePayment() {
		return false, invalidState("donation %s is %s and accepts no payments", donation.ID, donation.Status)
	}
	if p.Amount.GreaterThan(donation.PendingAmount) {
		return false, invalidState("payment of %s exceeds the pending amount %s of donation %s",
			p.Amount.StringFixed(2), donation.PendingAmount.StringFixed(2), donation.ID)
	}

	donation.AmountPaid = donation.AmountPaid.Add(p.Amount)
	donation.Recalculate()

	if err := statemachine.NewDonationFSM(donation).ApplyPayment(ctx); err != nil {
		return false, stateError(err)
	}

	completed := donation.Status == models.DonationStatusCompleted
	if completed {
		at := time.Now().UTC()
		donation.CompletedAt = &at
	}

	if err := tx.Payment.Create(ctx, &models.DonationPayment{
		DonationID:     donation.ID,
		InstallmentID:  p.InstallmentID,
		Amount:         p.Amount,
		PaymentMethod:  p.Method,
		TransactionRef: p.TransactionRef,
		PaidAt:         p.PaidAt,
		RecordedBy:     actor.ID,
	}); err != nil {
		return false, fmt.Errorf("failed to append payment: %w", err)
	}

	if err := tx.Donation.Update(ctx, donation); err != nil {
		return false, fmt.Errorf("failed to update donation: %w", err)
	}

	ledger, err := tx.Payment.SumByDonation(ctx, donation.ID)
	if err != nil {
		return false, err
	}
	if !ledger.Round(2).Equal(donation.AmountPaid.Round(2)) {
		logger.Error("[DonationService] ledger drift",
			"donation_id", donation.ID, "amount_paid", donation.AmountPaid.String(), "ledger", ledger.String())
		return false, fmt.Errorf("%w: donation %s amount_paid %s does not match ledger %s",
			ErrInvariantViolation, donation.ID, donation.AmountPaid.StringFixed(2), ledger.StringFixed(2))
	}

	if completed {
		settled, err := tx.Installment.SettleOpenByDonation(ctx, donation.ID, *donation.CompletedAt)
		if err != nil {
			return false, fmt.Errorf("failed to settle open installments: %w", err)
		}
		if settled > 0 {
			logger.Info("[DonationService] open installments settled by completion",
				"donation_id", donation.ID, "installments", settled)
		}
		// Donor statistics count Completed donations only.
		if err := s.donors.RecordDonationCompletion(ctx, tx, donation.DonorID, donation.TotalAmount); err != nil {
			return false, err
		}
	}
	return completed, nil
}

// afterPayment logs and audits a committed payment.
func (s *DonationService) afterPayment(ctx context.Context, donation *models.Donation, amount decimal.Decimal, completed bool, installmentID *string, actor Actor) {
	details := map[string]any{
		"amount":         amount.String(),
		"amount_paid":    donation.AmountPaid.String(),
		"pending_amount": donation.PendingAmount.String(),
	}
	if installmentID != nil {
		details["installment_id"] = *installmentID
	}

	logger.Info("[DonationService] payment recorded",
		"donation_id", donation.ID, "amount", amount.String(), "status", donation.Status)
	s.audit.Record(ctx, actor, models.ActionPaymentRecorded, models.TargetDonation, donation.ID, &donation.DonorID, details)

	if completed {
		s.audit.Record(ctx, actor, models.ActionDonationCompleted, models.TargetDonation, donation.ID, &donation.DonorID,
			map[string]any{"total_amount": donation.TotalAmount.String()})
	}
}

// Cancel cancels a pledged or partially paid donation together with every
// installment that is still Pending or Overdue.
func (s *DonationService) Cancel(ctx context.Context, donationID, reason string, actor Actor) (*models.Donation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fieldError("reason", "required", "is required")
	}

	var donation *models.Donation
	var cancelled int64
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donation, err = tx.Donation.FindByIDForUpdate(ctx, donationID)
		if err != nil {
			return notFound(err, "donation "+donationID)
		}

		if err := statemachine.NewDonationFSM(donation).Cancel(ctx); err != nil {
			return stateError(err)
		}

		now := time.Now().UTC()
		donation.CancelledAt = &now
		donation.CancellationReason = &reason
		if err := tx.Donation.Update(ctx, donation); err != nil {
			return err
		}

		cancelled, err = tx.Installment.CancelOpenByDonation(ctx, donation.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[DonationService] donation cancelled",
		"donation_id", donation.ID, "installments_cancelled", cancelled)
	s.audit.Record(ctx, actor, models.ActionDonationCancelled, models.TargetDonation, donation.ID, &donation.DonorID,
		map[string]any{"reason": reason, "installments_cancelled": cancelled})
	return donation, nil
}

// Get returns a donation with its donor and schedule
func (s *DonationService) Get(ctx context.Context, id string) (*models.Donation, error) {
	donation, err := s.repos.Donation.FindWithDetails(ctx, id)
	if err != nil {
		return nil, notFound(err, "donation "+id)
	}
	return donation, nil
}

// Payments returns the payment ledger of a donation
func (s *DonationService) Payments(ctx context.Context, id string) ([]models.DonationPayment, error) {
	if _, err := s.repos.Donation.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "donation "+id)
	}
	return s.repos.Payment.FindByDonationID(ctx, id)
}

// List returns donations newest first
func (s *DonationService) List(ctx context.Context, query *repository.ListQuery) ([]models.Donation, int64, error) {
	verr := &ValidationError{}
	if v := query.Filter("status"); v != "" && !models.IsValidDonationStatus(v) {
		verr.Add("status", "donation_status", "is not an accepted value")
	}
	if v := query.Filter("donation_type"); v != "" && !models.IsValidDonationType(v) {
		verr.Add("donation_type", "donation_type", "is not an accepted value")
	}
	if v := query.Filter("allocation_category"); v != "" && !models.IsValidCategory(v) {
		verr.Add("allocation_category", "category", "is not an accepted value")
	}
	if err := verr.OrNil(); err != nil {
		return nil, 0, err
	}
	return s.repos.Donation.List(ctx, query)
}

// UpdateNotes is the one change allowed on a completed or cancelled donation.
func (s *DonationService) UpdateNotes(ctx context.Context, id string, notes *string, actor Actor) (*models.Donation, error) {
	if notes != nil && len(*notes) > 2000 {
		return nil, fieldError("notes", "max", "must be at most 2000 characters")
	}

	var donation *models.Donation
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Donation.UpdateNotes(ctx, id, notes); err != nil {
			return notFound(err, "donation "+id)
		}
		var err error
		donation, err = tx.Donation.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionDonationNotes, models.TargetDonation, donation.ID, &donation.DonorID, nil)
	return donation, nil
}

// createSchedule generates, numbers and stores the installments of donation, then
// checks that they add up to the donation total.
func (s *DonationService) createSchedule(ctx context.Context, tx *repository.Repositories, donation *models.Donation, opts ScheduleOptions, today time.Time) ([]models.Installment, error) {
	if donation.NumberOfInstallments == nil {
		return nil, fieldError("number_of_installments", "required", "is required for installment mode")
	}

	installments, err := s.schedule.GenerateSchedule(donation, *donation.NumberOfInstallments, opts, today)
	if err != nil {
		return nil, err
	}

	for i := range installments {
		id, err := tx.Sequence.Next(ctx, models.PrefixInstallment)
		if err != nil {
			return nil, err
		}
		installments[i].ID = id
	}

	if err := tx.Installment.CreateBatch(ctx, installments); err != nil {
		return nil, err
	}

	if err := checkScheduleSum(ctx, tx, donation); err != nil {
		return nil, err
	}
	return installments, nil
}

// checkScheduleSum verifies that the live installments of donation add up to its total.
func checkScheduleSum(ctx context.Context, tx *repository.Repositories, donation *models.Donation) error {
	sum, err := tx.Installment.SumLiveByDonation(ctx, donation.ID)
	if err != nil {
		return err
	}
	if !sum.Round(2).Equal(donation.TotalAmount.Round(2)) {
		return fmt.Errorf("%w: installments of donation %s sum to %s, expected %s",
			ErrInvariantViolation, donation.ID, sum.StringFixed(2), donation.TotalAmount.StringFixed(2))
	}
	return nil
}

// checkAmount requires a positive amount with at most two decimal places.
func checkAmount(verr *ValidationError, field string, amount decimal.Decimal) {
	if verr.Has(field) {
		return
	}
	if !amount.IsPositive() {
		verr.Add(field, "gt", "must be greater than 0")
		return
	}
	if !amount.Equal(amount.Round(2)) {
		verr.Add(field, "precision", "must have at most 2 decimal places")
	}
}

// stateError maps a rejected state machine event to ErrInvalidState.
func stateError(err error) error {
	if errors.Is(err, statemachine.ErrIllegalTransition) {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return err
}
