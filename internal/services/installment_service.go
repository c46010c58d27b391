package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/internal/statemachine"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ReminderSender delivers installment reminders to donors
type ReminderSender interface {
	SendInstallmentReminder(ctx context.Context, donor *models.Donor, installment *models.Installment, overdue bool) error
}

// MarkPaidInput settles one installment
type MarkPaidInput struct {
	PaymentDate   *time.Time `json:"payment_date"`
	TransactionID *string    `json:"transaction_id" validate:"omitempty,max=100"`
	PaymentMethod string     `json:"payment_method" validate:"omitempty,payment_method"`
}

// ScheduleInput creates a deferred schedule. Count falls back to the donation's
// number_of_installments.
type ScheduleInput struct {
	NumberOfInstallments *int `json:"number_of_installments"`
	ScheduleOptions
}

// AmountChange sets a new amount on one open installment
type AmountChange struct {
	InstallmentID string          `json:"installment_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// ReminderResult summarizes one reminder run
type ReminderResult struct {
	Considered int `json:"considered"`
	Sent       int `json:"sent"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// InstallmentService owns installment schedules and their lifecycle
type InstallmentService struct {
	repos     *repository.Repositories
	donations *DonationService
	audit     *AuditService
	reminders ReminderSender
	leadDays  int
	clock     func() time.Time
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(repos *repository.Repositories, donations *DonationService, audit *AuditService, reminders ReminderSender, leadDays int) *InstallmentService {
	return &InstallmentService{
		repos:     repos,
		donations: donations,
		audit:     audit,
		reminders: reminders,
		leadDays:  leadDays,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateSchedule builds the schedule of an installment-mode donation that has none.
func (s *InstallmentService) CreateSchedule(ctx context.Context, donationID string, input ScheduleInput, actor Actor) ([]models.Installment, error) {
	if err := validateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	now := s.clock()
	var donation *models.Donation
	var installments []models.Installment
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donation, err = tx.Donation.FindByIDForUpdate(ctx, donationID)
		if err != nil {
			return notFound(err, "donation "+donationID)
		}
		if !donation.IsInstallmentMode() {
			return invalidState("donation %s is paid in full and has no schedule", donation.ID)
		}
		if !donation.MayReceivePayment() {
			return invalidState("donation %s is %s", donation.ID, donation.Status)
		}

		live, err := tx.Installment.CountLiveByDonation(ctx, donation.ID)
		if err != nil {
			return err
		}
		if live > 0 {
			return invalidState("donation %s already has a schedule", donation.ID)
		}

		if input.NumberOfInstallments != nil {
			donation.NumberOfInstallments = input.NumberOfInstallments
		}
		frequency := input.Frequency
		if frequency == "" {
			frequency = models.FrequencyMonthly
		}
		donation.InstallmentFrequency = &frequency
		if err := tx.Donation.Update(ctx, donation); err != nil {
			return err
		}

		installments, err = s.donations.createSchedule(ctx, tx, donation, input.ScheduleOptions, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[InstallmentService] schedule created",
		"donation_id", donation.ID, "installments", len(installments))
	s.audit.Record(ctx, actor, models.ActionScheduleCreated, models.TargetDonation, donation.ID, &donation.DonorID,
		map[string]any{"installments": len(installments), "frequency": *donation.InstallmentFrequency})
	return installments, nil
}

// MarkPaid settles an open installment and posts its amount to the parent donation
// in the same transaction. The posting is capped at the donation's pending amount.
// Paying the same installment twice is rejected.
func (s *InstallmentService) MarkPaid(ctx context.Context, installmentID string, input MarkPaidInput, actor Actor) (*models.InstallmentResponse, error) {
	if err := validateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	// Resolve the parent first so the donation row is locked before the installment.
	ref, err := s.repos.Installment.FindByID(ctx, installmentID)
	if err != nil {
		return nil, notFound(err, "installment "+installmentID)
	}

	now := s.clock()
	paidAt := now
	if input.PaymentDate != nil {
		paidAt = input.PaymentDate.UTC()
	}

	var donation *models.Donation
	var installment *models.Installment
	var completed bool
	var posted decimal.Decimal
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donation, err = tx.Donation.FindByIDForUpdate(ctx, ref.DonationID)
		if err != nil {
			return notFound(err, "donation "+ref.DonationID)
		}
		installment, err = tx.Installment.FindByIDForUpdate(ctx, installmentID)
		if err != nil {
			return notFound(err, "installment "+installmentID)
		}
		if !donation.MayReceivePayment() {
			return invalidState("donation %s is %s and accepts no payments", donation.ID, donation.Status)
		}

		if err := statemachine.NewInstallmentFSM(installment, now).Pay(ctx); err != nil {
			return stateError(err)
		}

		method := input.PaymentMethod
		if method == "" {
			method = donation.PaymentMethod
		}
		installment.PaidDate = &paidAt
		installment.PaymentMethod = &method
		installment.TransactionID = input.TransactionID
		if err := tx.Installment.Update(ctx, installment); err != nil {
			return err
		}

		// Direct payments may already cover part of this installment.
		posted = decimal.Min(installment.Amount, donation.PendingAmount)
		completed, err = s.donations.applyPayment(ctx, tx, donation, posting{
			Amount:         posted,
			Method:         method,
			TransactionRef: input.TransactionID,
			InstallmentID:  &installment.ID,
			PaidAt:         paidAt,
		}, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionInstallmentPaid, models.TargetInstallment, installment.ID, &installment.DonorID,
		map[string]any{"donation_id": donation.ID, "amount": posted.String()})
	s.donations.afterPayment(ctx, donation, posted, completed, &installment.ID, actor)

	resp := installment.ToResponse(now)
	return &resp, nil
}

// DefaultInstallment writes off an overdue installment. Defaulted installments are
// terminal and receive no further reminders.
func (s *InstallmentService) DefaultInstallment(ctx context.Context, installmentID, reason string, actor Actor) (*models.InstallmentResponse, error) {
	reason = strings.TrimSpace(reason)
	now := s.clock()

	ref, err := s.repos.Installment.FindByID(ctx, installmentID)
	if err != nil {
		return nil, notFound(err, "installment "+installmentID)
	}

	var installment *models.Installment
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		donation, err := tx.Donation.FindByIDForUpdate(ctx, ref.DonationID)
		if err != nil {
			return notFound(err, "donation "+ref.DonationID)
		}
		if !donation.MayReceivePayment() {
			return invalidState("donation %s is %s", donation.ID, donation.Status)
		}
		installment, err = tx.Installment.FindByIDForUpdate(ctx, installmentID)
		if err != nil {
			return notFound(err, "installment "+installmentID)
		}

		if err := statemachine.NewInstallmentFSM(installment, now).Default(ctx); err != nil {
			return stateError(err)
		}
		installment.DefaultedAt = &now
		if reason != "" {
			installment.Notes = &reason
		}
		return tx.Installment.Update(ctx, installment)
	})
	if err != nil {
		return nil, err
	}

	logger.Warn("[InstallmentService] installment defaulted",
		"installment_id", installment.ID, "donation_id", installment.DonationID)
	s.audit.Record(ctx, actor, models.ActionInstallmentDefaulted, models.TargetInstallment, installment.ID, &installment.DonorID,
		map[string]any{"reason": reason, "amount": installment.Amount.String()})

	resp := installment.ToResponse(now)
	return &resp, nil
}

// AdjustAmounts changes the amounts of open installments. The live schedule must
// still add up to the donation total afterwards.
func (s *InstallmentService) AdjustAmounts(ctx context.Context, donationID string, changes []AmountChange, actor Actor) ([]models.Installment, error) {
	verr := &ValidationError{}
	if len(changes) == 0 {
		verr.Add("amounts", "required", "must list at least one installment")
	}
	seen := make(map[string]bool, len(changes))
	for i, c := range changes {
		field := fmt.Sprintf("amounts[%d]", i)
		if strings.TrimSpace(c.InstallmentID) == "" {
			verr.Add(field+".installment_id", "required", "is required")
		} else if seen[c.InstallmentID] {
			verr.Add(field+".installment_id", "unique", "is listed more than once")
		}
		seen[c.InstallmentID] = true
		checkAmount(verr, field+".amount", c.Amount)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var donation *models.Donation
	var installments []models.Installment
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donation, err = tx.Donation.FindByIDForUpdate(ctx, donationID)
		if err != nil {
			return notFound(err, "donation "+donationID)
		}
		if !donation.MayReceivePayment() {
			return invalidState("donation %s is %s", donation.ID, donation.Status)
		}

		installments, err = tx.Installment.FindByDonationIDForUpdate(ctx, donation.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]*models.Installment, len(installments))
		for i := range installments {
			byID[installments[i].ID] = &installments[i]
		}

		sum := decimal.Zero
		for _, inst := range installments {
			if inst.Status != models.InstallmentStatusCancelled {
				sum = sum.Add(inst.Amount)
			}
		}

		for _, c := range changes {
			inst, ok := byID[c.InstallmentID]
			if !ok {
				return fmt.Errorf("%w: installment %s of donation %s", ErrNotFound, c.InstallmentID, donation.ID)
			}
			if !inst.IsOpen() {
				return invalidState("installment %s is %s", inst.ID, inst.Status)
			}
			sum = sum.Sub(inst.Amount).Add(c.Amount)
			inst.Amount = c.Amount
		}

		if !sum.Round(2).Equal(donation.TotalAmount.Round(2)) {
			return fieldError("amounts", "sum_total",
				fmt.Sprintf("installments would sum to %s but the donation total is %s",
					sum.StringFixed(2), donation.TotalAmount.StringFixed(2)))
		}

		for _, c := range changes {
			if err := tx.Installment.UpdateAmount(ctx, c.InstallmentID, c.Amount); err != nil {
				return err
			}
		}
		return checkScheduleSum(ctx, tx, donation)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionScheduleAdjusted, models.TargetDonation, donation.ID, &donation.DonorID,
		map[string]any{"changed": len(changes)})
	return installments, nil
}

// Get returns an installment with its effective status
func (s *InstallmentService) Get(ctx context.Context, id string) (*models.InstallmentResponse, error) {
	installment, err := s.repos.Installment.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "installment "+id)
	}
	resp := installment.ToResponse(s.clock())
	return &resp, nil
}

// ListByDonation returns the schedule of a donation in installment order
func (s *InstallmentService) ListByDonation(ctx context.Context, donationID string) ([]models.InstallmentResponse, error) {
	if _, err := s.repos.Donation.FindByID(ctx, donationID); err != nil {
		return nil, notFound(err, "donation "+donationID)
	}
	installments, err := s.repos.Installment.FindByDonationID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	return toResponses(installments, s.clock()), nil
}

// List filters installments by donation, donor or effective status
func (s *InstallmentService) List(ctx context.Context, query *repository.ListQuery) ([]models.InstallmentResponse, int64, error) {
	if status := query.Filter("status"); status != "" && !models.IsValidInstallmentStatus(status) {
		return nil, 0, fieldError("status", "installment_status", "is not an accepted value")
	}
	now := s.clock()
	installments, total, err := s.repos.Installment.List(ctx, query, now)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(installments, now), total, nil
}

// SweepOverdue persists Overdue on every Pending installment past its grace period.
// Reads already see the effective status; the sweep keeps the stored rows in line.
func (s *InstallmentService) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repos.Installment.MarkOverdue(ctx, now)
	if err != nil {
		logger.Error("[InstallmentService] overdue sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		logger.Info("[InstallmentService] installments marked overdue", "count", n)
	}
	return n, nil
}

// SendReminders emails donors who opted in about installments due within the lead
// window and about overdue ones. Each installment is reminded at most once a day.
func (s *InstallmentService) SendReminders(ctx context.Context, now time.Time) (ReminderResult, error) {
	var result ReminderResult
	if s.reminders == nil {
		return result, nil
	}

	installments, err := s.repos.Installment.FindDueForReminder(ctx, now, s.leadDays)
	if err != nil {
		return result, err
	}
	result.Considered = len(installments)

	for i := range installments {
		inst := &installments[i]
		if inst.Donor == nil || inst.Donor.Status != models.DonorStatusActive || !inst.Donor.Preferences.Data().Email {
			result.Skipped++
			continue
		}

		overdue := inst.EffectiveStatus(now) == models.InstallmentStatusOverdue
		if err := s.reminders.SendInstallmentReminder(ctx, inst.Donor, inst, overdue); err != nil {
			logger.Warn("[InstallmentService] reminder not sent", "installment_id", inst.ID, "error", err)
			result.Failed++
			continue
		}
		if err := s.repos.Installment.RecordReminder(ctx, inst.ID, now, overdue); err != nil {
			return result, err
		}
		result.Sent++
	}

	logger.Info("[InstallmentService] reminders processed",
		"considered", result.Considered, "sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func toResponses(installments []models.Installment, now time.Time) []models.InstallmentResponse {
	out := make([]models.InstallmentResponse, len(installments))
	for i := range installments {
		out[i] = installments[i].ToResponse(now)
	}
	return out
}
