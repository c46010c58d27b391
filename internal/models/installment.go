package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGracePeriodDays applies when a schedule does not set its own grace period.
const DefaultGracePeriodDays = 7

// Installment is one dated sub-payment of an installment-mode donation.
type Installment struct {
	ID                string          `gorm:"primaryKey;size:20" json:"id"`
	DonationID        string          `gorm:"size:20;not null;uniqueIndex:idx_installments_donation_number" json:"donation_id"`
	DonorID           string          `gorm:"size:20;not null;index" json:"donor_id"`
	InstallmentNumber int             `gorm:"not null;uniqueIndex:idx_installments_donation_number" json:"installment_number"`
	TotalInstallments int             `gorm:"not null" json:"total_installments"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate           time.Time       `gorm:"not null;index" json:"due_date"`
	Frequency         string          `gorm:"size:20;not null" json:"frequency"`
	Status            string          `gorm:"size:20;not null;default:Pending;index" json:"status"`
	PaidDate          *time.Time      `json:"paid_date"`
	PaymentMethod     *string         `gorm:"size:20" json:"payment_method"`
	TransactionID     *string         `gorm:"size:100" json:"transaction_id"`
	GracePeriodDays   int             `gorm:"not null" json:"grace_period_days"`
	GraceEndDate      time.Time       `gorm:"not null;index" json:"grace_end_date"`
	ReminderCount     int             `gorm:"not null;default:0" json:"reminder_count"`
	LastReminderAt    *time.Time      `json:"last_reminder_at"`
	FollowUpCount     int             `gorm:"not null;default:0" json:"follow_up_count"`
	DefaultedAt       *time.Time      `json:"defaulted_at"`
	CancelledAt       *time.Time      `json:"cancelled_at"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Associations
	Donation *Donation `gorm:"foreignKey:DonationID" json:"donation,omitempty"`
	Donor    *Donor    `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
}

// TableName specifies the table name for Installment
func (Installment) TableName() string {
	return "installments"
}

// Installment status constants
const (
	InstallmentStatusPending   = "Pending"
	InstallmentStatusPaid      = "Paid"
	InstallmentStatusOverdue   = "Overdue"
	InstallmentStatusCancelled = "Cancelled"
	InstallmentStatusDefaulted = "Defaulted"
)

var InstallmentStatuses = []string{
	InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue,
	InstallmentStatusCancelled, InstallmentStatusDefaulted,
}

func IsValidInstallmentStatus(s string) bool {
	return slices.Contains(InstallmentStatuses, s)
}

// GraceEnd returns the instant after which an unpaid installment is overdue.
func GraceEnd(due time.Time, graceDays int) time.Time {
	return due.AddDate(0, 0, graceDays)
}

// EffectiveStatus is the status as of now. A Pending installment whose grace period
// has run out reads as Overdue even if the stored row was never re-saved.
func (i *Installment) EffectiveStatus(now time.Time) string {
	if i.Status == InstallmentStatusPending && now.After(i.DueDate) && now.After(GraceEnd(i.DueDate, i.GracePeriodDays)) {
		return InstallmentStatusOverdue
	}
	return i.Status
}

// IsOpen returns true while the installment still expects money
func (i *Installment) IsOpen() bool {
	return i.Status == InstallmentStatusPending || i.Status == InstallmentStatusOverdue
}

// MayPay returns true if installment can be marked paid
func (i *Installment) MayPay() bool {
	return i.IsOpen()
}

// MayDefault returns true if installment can be written off at now
func (i *Installment) MayDefault(now time.Time) bool {
	return i.EffectiveStatus(now) == InstallmentStatusOverdue
}

// DaysOverdue returns the whole days past the due date, zero when not overdue.
func (i *Installment) DaysOverdue(now time.Time) int {
	if i.EffectiveStatus(now) != InstallmentStatusOverdue {
		return 0
	}
	return int(now.Sub(i.DueDate).Hours() / 24)
}

// InstallmentResponse is the JSON response format for installments
type InstallmentResponse struct {
	Installment
	EffectiveStatus string `json:"effective_status"`
	DaysOverdue     int    `json:"days_overdue"`
}

// ToResponse evaluates the derived fields at now
func (i *Installment) ToResponse(now time.Time) InstallmentResponse {
	return InstallmentResponse{
		Installment:     *i,
		EffectiveStatus: i.EffectiveStatus(now),
		DaysOverdue:     i.DaysOverdue(now),
	}
}
