package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// DonorLogRetention is how long audit entries are kept before the retention purge.
const DonorLogRetention = 90 * 24 * time.Hour

// ErrDonorLogImmutable is returned when something tries to rewrite an audit entry.
var ErrDonorLogImmutable = errors.New("donor logs are append-only")

// DonorLog represents an audit entry for a donor-facing mutation
type DonorLog struct {
	ID         string    `gorm:"primaryKey;size:20" json:"id"`
	Action     string    `gorm:"size:50;not null;index" json:"action"`
	TargetType string    `gorm:"size:30;not null" json:"target_type"` // Donor, Donation, Installment
	TargetID   string    `gorm:"size:20;not null;index" json:"target_id"`
	DonorID    *string   `gorm:"size:20;index" json:"donor_id"`
	ActorID    string    `gorm:"size:50" json:"actor_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName specifies the table name for DonorLog
func (DonorLog) TableName() string {
	return "donor_logs"
}

// BeforeUpdate rejects any update issued through GORM.
func (l *DonorLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrDonorLogImmutable
}

// Audit actions
const (
	ActionDonorCreated         = "DONOR_CREATED"
	ActionDonorUpdated         = "DONOR_UPDATED"
	ActionDonorDisabled        = "DONOR_DISABLED"
	ActionDonorEnabled         = "DONOR_ENABLED"
	ActionDonorDeleted         = "DONOR_DELETED"
	ActionDonorRestored        = "DONOR_RESTORED"
	ActionDonorReconciled      = "DONOR_RECONCILED"
	ActionDonationCreated      = "DONATION_CREATED"
	ActionDonationCompleted    = "DONATION_COMPLETED"
	ActionDonationCancelled    = "DONATION_CANCELLED"
	ActionDonationNotes        = "DONATION_NOTES_UPDATED"
	ActionPaymentRecorded      = "PAYMENT_RECORDED"
	ActionReceiptIssued        = "RECEIPT_ISSUED"
	ActionScheduleCreated      = "SCHEDULE_CREATED"
	ActionScheduleAdjusted     = "SCHEDULE_ADJUSTED"
	ActionInstallmentPaid      = "INSTALLMENT_PAID"
	ActionInstallmentDefaulted = "INSTALLMENT_DEFAULTED"
)

// Audit target types
const (
	TargetDonor       = "Donor"
	TargetDonation    = "Donation"
	TargetInstallment = "Installment"
)
