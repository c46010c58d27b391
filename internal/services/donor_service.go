package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DonorInput is the payload for registering a donor
type DonorInput struct {
	FullName            string                   `json:"full_name" validate:"required,max=200"`
	DonorType           string                   `json:"donor_type" validate:"required,donor_type"`
	Phone               string                   `json:"phone" validate:"required,phone"`
	Email               *string                  `json:"email" validate:"omitempty,email,max=200"`
	Address             *string                  `json:"address" validate:"omitempty,max=500"`
	IdentityProofType   *string                  `json:"identity_proof_type" validate:"omitempty,max=30"`
	IdentityProofNumber *string                  `json:"identity_proof_number" validate:"omitempty,max=50"`
	AnticipatedAmount   decimal.Decimal          `json:"anticipated_amount"`
	Preferences         *models.DonorPreferences `json:"preferences"`
	Notes               *string                  `json:"notes"`
}

// DonorUpdateInput changes only the fields that are set
type DonorUpdateInput struct {
	FullName            *string                  `json:"full_name" validate:"omitempty,min=1,max=200"`
	DonorType           *string                  `json:"donor_type" validate:"omitempty,donor_type"`
	Phone               *string                  `json:"phone" validate:"omitempty,phone"`
	Email               *string                  `json:"email" validate:"omitempty,email,max=200"`
	Address             *string                  `json:"address" validate:"omitempty,max=500"`
	IdentityProofType   *string                  `json:"identity_proof_type" validate:"omitempty,max=30"`
	IdentityProofNumber *string                  `json:"identity_proof_number" validate:"omitempty,max=50"`
	AnticipatedAmount   *decimal.Decimal         `json:"anticipated_amount"`
	Preferences         *models.DonorPreferences `json:"preferences"`
	Notes               *string                  `json:"notes"`
}

// DonorService owns donor identity, uniqueness, lifecycle and lifetime statistics
type DonorService struct {
	repos             *repository.Repositories
	audit             *AuditService
	identityThreshold decimal.Decimal
}

// NewDonorService creates a new donor service
func NewDonorService(repos *repository.Repositories, audit *AuditService, identityThreshold decimal.Decimal) *DonorService {
	return &DonorService{repos: repos, audit: audit, identityThreshold: identityThreshold}
}

// Create registers a donor
func (s *DonorService) Create(ctx context.Context, input DonorInput, actor Actor) (*models.Donor, error) {
	input.Phone = normalizePhone(input.Phone)
	input.Email = normalizeEmail(input.Email)

	verr := validateStruct(input)
	s.checkAmounts(verr, input.AnticipatedAmount, input.IdentityProofType, input.IdentityProofNumber)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var donor *models.Donor
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := checkContactsFree(ctx, tx, "", input.Phone, input.Email); err != nil {
			return err
		}

		id, err := tx.Sequence.Next(ctx, models.PrefixDonor)
		if err != nil {
			return err
		}

		donor = &models.Donor{
			ID:                  id,
			FullName:            strings.TrimSpace(input.FullName),
			DonorType:           input.DonorType,
			Phone:               input.Phone,
			Email:               input.Email,
			Address:             input.Address,
			IdentityProofType:   input.IdentityProofType,
			IdentityProofNumber: input.IdentityProofNumber,
			AnticipatedAmount:   input.AnticipatedAmount,
			Status:              models.DonorStatusActive,
			TotalAmount:         decimal.Zero,
			Notes:               input.Notes,
			CreatedBy:           actor.ID,
		}
		if input.Preferences != nil {
			donor.Preferences = datatypes.NewJSONType(*input.Preferences)
		}

		return duplicateContact(tx.Donor.Create(ctx, donor))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[DonorService] donor created", "donor_id", donor.ID, "phone", donor.Phone)
	s.audit.Record(ctx, actor, models.ActionDonorCreated, models.TargetDonor, donor.ID, &donor.ID,
		map[string]any{"full_name": donor.FullName, "donor_type": donor.DonorType})
	return donor, nil
}

// Update changes donor profile fields. Deleted donors cannot be updated.
func (s *DonorService) Update(ctx context.Context, id string, input DonorUpdateInput, actor Actor) (*models.Donor, error) {
	if input.Phone != nil {
		p := normalizePhone(*input.Phone)
		input.Phone = &p
	}
	input.Email = normalizeEmail(input.Email)

	if err := validateStruct(input).OrNil(); err != nil {
		return nil, err
	}

	var donor *models.Donor
	var changed []string
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donor, err = tx.Donor.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "donor "+id)
		}
		if donor.IsDeleted() {
			return invalidState("donor %s is deleted", id)
		}

		changed = applyDonorUpdate(donor, input)

		verr := &ValidationError{}
		s.checkAmounts(verr, donor.AnticipatedAmount, donor.IdentityProofType, donor.IdentityProofNumber)
		if err := verr.OrNil(); err != nil {
			return err
		}

		if input.Phone != nil || input.Email != nil {
			if err := checkContactsFree(ctx, tx, donor.ID, donor.Phone, donor.Email); err != nil {
				return err
			}
		}

		return duplicateContact(tx.Donor.Update(ctx, donor))
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionDonorUpdated, models.TargetDonor, donor.ID, &donor.ID,
		map[string]any{"fields": changed})
	return donor, nil
}

// Get returns a donor in any status
func (s *DonorService) Get(ctx context.Context, id string) (*models.Donor, error) {
	donor, err := s.repos.Donor.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "donor "+id)
	}
	return donor, nil
}

// FindByPhone looks up the non-deleted donor owning phone
func (s *DonorService) FindByPhone(ctx context.Context, phone string) (*models.Donor, error) {
	phone = normalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return nil, fieldError("phone", "phone", "must be 10 to 15 digits with an optional leading +")
	}
	donor, err := s.repos.Donor.FindActiveByPhone(ctx, phone)
	if err != nil {
		return nil, notFound(err, "donor with phone")
	}
	return donor, nil
}

// List returns donors newest first
func (s *DonorService) List(ctx context.Context, query *repository.ListQuery) ([]models.Donor, int64, error) {
	if status := query.Filter("status"); status != "" && !models.IsValidDonorStatus(status) {
		return nil, 0, fieldError("status", "donor_status", "is not an accepted value")
	}
	if t := query.Filter("donor_type"); t != "" && !models.IsValidDonorType(t) {
		return nil, 0, fieldError("donor_type", "donor_type", "is not an accepted value")
	}
	return s.repos.Donor.List(ctx, query)
}

// ListDonations returns every donation of a donor, newest first
func (s *DonorService) ListDonations(ctx context.Context, donorID string) ([]models.Donation, error) {
	if _, err := s.Get(ctx, donorID); err != nil {
		return nil, err
	}
	return s.repos.Donation.ListByDonor(ctx, donorID)
}

// Disable stops new donations from being booked against an active donor
func (s *DonorService) Disable(ctx context.Context, id string, actor Actor) (*models.Donor, error) {
	donor, err := s.transition(ctx, id, func(tx *repository.Repositories, donor *models.Donor) error {
		if !donor.MayDisable() {
			return invalidState("donor %s is %s", donor.ID, donor.Status)
		}
		now := time.Now().UTC()
		donor.Status = models.DonorStatusDisabled
		donor.DisabledAt = &now
		return tx.Donor.Update(ctx, donor)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionDonorDisabled, models.TargetDonor, donor.ID, &donor.ID, nil)
	return donor, nil
}

// Enable reactivates a disabled donor
func (s *DonorService) Enable(ctx context.Context, id string, actor Actor) (*models.Donor, error) {
	donor, err := s.transition(ctx, id, func(tx *repository.Repositories, donor *models.Donor) error {
		if donor.Status != models.DonorStatusDisabled {
			return invalidState("donor %s is %s", donor.ID, donor.Status)
		}
		donor.Status = models.DonorStatusActive
		donor.DisabledAt = nil
		return tx.Donor.Update(ctx, donor)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionDonorEnabled, models.TargetDonor, donor.ID, &donor.ID, nil)
	return donor, nil
}

// Delete soft deletes a donor. Donations and installments are left untouched.
func (s *DonorService) Delete(ctx context.Context, id string, actor Actor) (*models.Donor, error) {
	donor, err := s.transition(ctx, id, func(tx *repository.Repositories, donor *models.Donor) error {
		if donor.IsDeleted() {
			return invalidState("donor %s is already deleted", donor.ID)
		}
		now := time.Now().UTC()
		if err := tx.Donor.SoftDelete(ctx, donor.ID, now); err != nil {
			return err
		}
		donor.Status = models.DonorStatusDeleted
		donor.DeletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[DonorService] donor deleted", "donor_id", donor.ID)
	s.audit.Record(ctx, actor, models.ActionDonorDeleted, models.TargetDonor, donor.ID, &donor.ID, nil)
	return donor, nil
}

// Restore brings a deleted donor back, provided nobody has taken its phone or email since.
func (s *DonorService) Restore(ctx context.Context, id string, actor Actor) (*models.Donor, error) {
	donor, err := s.transition(ctx, id, func(tx *repository.Repositories, donor *models.Donor) error {
		if !donor.MayRestore() {
			return invalidState("donor %s is %s", donor.ID, donor.Status)
		}
		if err := checkContactsFree(ctx, tx, donor.ID, donor.Phone, donor.Email); err != nil {
			return err
		}
		if err := duplicateContact(tx.Donor.Restore(ctx, donor.ID)); err != nil {
			return err
		}
		donor.Status = models.DonorStatusActive
		donor.DeletedAt = nil
		donor.DisabledAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.ActionDonorRestored, models.TargetDonor, donor.ID, &donor.ID, nil)
	return donor, nil
}

// RecordDonationCompletion adds one completed donation to the donor's lifetime
// statistics. It runs on the caller's transaction. The statistics count only
// Completed donations: Pledged and Partial ones are not credited until fully paid,
// so a cancellation never has to reverse a credit.
func (s *DonorService) RecordDonationCompletion(ctx context.Context, tx *repository.Repositories, donorID string, amount decimal.Decimal) error {
	if err := tx.Donor.IncrementStats(ctx, donorID, amount); err != nil {
		return notFound(err, "donor "+donorID)
	}
	return nil
}

// ReconcileStats recomputes the lifetime statistics from the donor's completed donations.
func (s *DonorService) ReconcileStats(ctx context.Context, id string, actor Actor) (*models.Donor, error) {
	var before, after struct {
		count int64
		total decimal.Decimal
	}
	donor, err := s.transition(ctx, id, func(tx *repository.Repositories, donor *models.Donor) error {
		before.count, before.total = donor.TotalDonations, donor.TotalAmount

		count, total, err := tx.Donation.CompletedStatsByDonor(ctx, donor.ID)
		if err != nil {
			return err
		}
		total = total.Round(2)
		if err := tx.Donor.SetStats(ctx, donor.ID, count, total); err != nil {
			return err
		}
		donor.TotalDonations, donor.TotalAmount = count, total
		after.count, after.total = count, total
		return nil
	})
	if err != nil {
		return nil, err
	}

	if before.count != after.count || !before.total.Equal(after.total) {
		logger.Warn("[DonorService] donor statistics drifted",
			"donor_id", donor.ID,
			"stored_count", before.count, "actual_count", after.count,
			"stored_total", before.total.String(), "actual_total", after.total.String())
	}
	s.audit.Record(ctx, actor, models.ActionDonorReconciled, models.TargetDonor, donor.ID, &donor.ID,
		map[string]any{"total_donations": after.count, "total_amount": after.total.String()})
	return donor, nil
}

// transition loads a donor inside a transaction and applies fn to it.
func (s *DonorService) transition(ctx context.Context, id string, fn func(tx *repository.Repositories, donor *models.Donor) error) (*models.Donor, error) {
	var donor *models.Donor
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		donor, err = tx.Donor.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "donor "+id)
		}
		return fn(tx, donor)
	})
	if err != nil {
		return nil, err
	}
	return donor, nil
}

// checkAmounts enforces a non-negative anticipated amount and the identity proof
// requirement above the disclosure threshold.
func (s *DonorService) checkAmounts(verr *ValidationError, anticipated decimal.Decimal, proofType, proofNumber *string) {
	if anticipated.IsNegative() {
		verr.Add("anticipated_amount", "gte", "must not be negative")
		return
	}
	if !anticipated.GreaterThan(s.identityThreshold) {
		return
	}
	if isBlank(proofType) {
		verr.Add("identity_proof_type", "required_above_threshold",
			fmt.Sprintf("is required when the anticipated amount exceeds %s", s.identityThreshold))
	}
	if isBlank(proofNumber) {
		verr.Add("identity_proof_number", "required_above_threshold",
			fmt.Sprintf("is required when the anticipated amount exceeds %s", s.identityThreshold))
	}
}

// checkContactsFree rejects a phone or email already held by another non-deleted donor.
func checkContactsFree(ctx context.Context, tx *repository.Repositories, selfID, phone string, email *string) error {
	verr := &ValidationError{}

	other, err := tx.Donor.FindActiveByPhone(ctx, phone)
	switch {
	case err == nil && other.ID != selfID:
		verr.Add("phone", "unique", "is already registered to donor "+other.ID)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if email != nil {
		other, err := tx.Donor.FindActiveByEmail(ctx, *email)
		switch {
		case err == nil && other.ID != selfID:
			verr.Add("email", "unique", "is already registered to donor "+other.ID)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
	}
	return verr.OrNil()
}

// duplicateContact turns a unique index violation that slipped past the lookup
// (two concurrent registrations) into the same validation error.
func duplicateContact(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fieldError("phone", "unique", "phone or email is already registered")
	}
	return err
}

func applyDonorUpdate(donor *models.Donor, in DonorUpdateInput) []string {
	var changed []string
	if in.FullName != nil {
		donor.FullName = strings.TrimSpace(*in.FullName)
		changed = append(changed, "full_name")
	}
	if in.DonorType != nil {
		donor.DonorType = *in.DonorType
		changed = append(changed, "donor_type")
	}
	if in.Phone != nil {
		donor.Phone = *in.Phone
		changed = append(changed, "phone")
	}
	if in.Email != nil {
		donor.Email = in.Email
		changed = append(changed, "email")
	}
	if in.Address != nil {
		donor.Address = in.Address
		changed = append(changed, "address")
	}
	if in.IdentityProofType != nil {
		donor.IdentityProofType = in.IdentityProofType
		changed = append(changed, "identity_proof_type")
	}
	if in.IdentityProofNumber != nil {
		donor.IdentityProofNumber = in.IdentityProofNumber
		changed = append(changed, "identity_proof_number")
	}
	if in.AnticipatedAmount != nil {
		donor.AnticipatedAmount = *in.AnticipatedAmount
		changed = append(changed, "anticipated_amount")
	}
	if in.Preferences != nil {
		donor.Preferences = datatypes.NewJSONType(*in.Preferences)
		changed = append(changed, "preferences")
	}
	if in.Notes != nil {
		donor.Notes = in.Notes
		changed = append(changed, "notes")
	}
	return changed
}

// normalizePhone strips spaces and dashes people type into phone numbers.
func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
