package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Donation is a pledge by a donor, paid in full or through an installment schedule.
type Donation struct {
	ID                   string          `gorm:"primaryKey;size:20" json:"id"`
	DonorID              string          `gorm:"size:20;not null;index" json:"donor_id"`
	DonationType         string          `gorm:"size:30;not null;index" json:"donation_type"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Currency             string          `gorm:"size:3;not null;default:INR" json:"currency"`
	PaymentMode          string          `gorm:"size:20;not null" json:"payment_mode"`
	NumberOfInstallments *int            `json:"number_of_installments"`
	InstallmentFrequency *string         `gorm:"size:20" json:"installment_frequency"`
	PaymentMethod        string          `gorm:"size:20;not null" json:"payment_method"`
	Status               string          `gorm:"size:20;not null;default:Pledged;index" json:"status"`
	AmountPaid           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	PendingAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"pending_amount"`
	NisabVerified        bool            `gorm:"not null;default:false" json:"nisab_verified"`
	AllocationCategory   string          `gorm:"size:30;not null;default:General;index" json:"allocation_category"`
	IsRecurring          bool            `gorm:"not null;default:false" json:"is_recurring"`
	RecurringFrequency   *string         `gorm:"size:20" json:"recurring_frequency"`
	TaxReceiptRequested  bool            `gorm:"not null;default:false" json:"tax_receipt_requested"`
	TaxReceiptIssued     bool            `gorm:"not null;default:false" json:"tax_receipt_issued"`
	ReceiptNumber        *string         `gorm:"size:30" json:"receipt_number"`
	ReceiptPath          *string         `json:"-"`
	HijriYear            int             `gorm:"not null;index" json:"hijri_year"`
	Notes                *string         `gorm:"type:text" json:"notes"`
	CreatedBy            string          `gorm:"size:50" json:"created_by"`
	CompletedAt          *time.Time      `json:"completed_at"`
	CancelledAt          *time.Time      `json:"cancelled_at"`
	CancellationReason   *string         `gorm:"type:text" json:"cancellation_reason"`
	CreatedAt            time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`

	// Associations
	Donor        *Donor        `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Installments []Installment `gorm:"foreignKey:DonationID" json:"installments,omitempty"`
}

// TableName specifies the table name for Donation
func (Donation) TableName() string {
	return "donations"
}

// Donation status constants
const (
	DonationStatusPledged   = "Pledged"
	DonationStatusPartial   = "Partial"
	DonationStatusCompleted = "Completed"
	DonationStatusCancelled = "Cancelled"
)

var DonationStatuses = []string{
	DonationStatusPledged, DonationStatusPartial, DonationStatusCompleted, DonationStatusCancelled,
}

// Donation type constants
const (
	DonationTypeZakatMaal      = "Zakat_Maal"
	DonationTypeZakatFitr      = "Zakat_Fitr"
	DonationTypeSadaqah        = "Sadaqah"
	DonationTypeFidya          = "Fidya"
	DonationTypeKaffarah       = "Kaffarah"
	DonationTypeSadaqahJariyah = "Sadaqah_Jariyah"
)

var DonationTypes = []string{
	DonationTypeZakatMaal, DonationTypeZakatFitr, DonationTypeSadaqah,
	DonationTypeFidya, DonationTypeKaffarah, DonationTypeSadaqahJariyah,
}

// Payment mode constants
const (
	PaymentModeFull        = "Full"
	PaymentModeInstallment = "Installment"
)

// Installment frequency constants
const (
	FrequencyWeekly  = "Weekly"
	FrequencyMonthly = "Monthly"
	FrequencyCustom  = "Custom"
)

var InstallmentFrequencies = []string{FrequencyWeekly, FrequencyMonthly, FrequencyCustom}

// Allocation category constants
const (
	CategoryGeneral           = "General"
	CategoryEducation         = "Education"
	CategoryHealthcare        = "Healthcare"
	CategoryFoodRelief        = "Food_Relief"
	CategoryOrphanCare        = "Orphan_Care"
	CategoryMasjidMaintenance = "Masjid_Maintenance"
	CategoryEmergencyRelief   = "Emergency_Relief"
	CategoryDebtRelief        = "Debt_Relief"
)

var AllocationCategories = []string{
	CategoryGeneral, CategoryEducation, CategoryHealthcare, CategoryFoodRelief,
	CategoryOrphanCare, CategoryMasjidMaintenance, CategoryEmergencyRelief, CategoryDebtRelief,
}

// Recurring frequency constants
const (
	RecurringMonthly   = "Monthly"
	RecurringQuarterly = "Quarterly"
	RecurringYearly    = "Yearly"
)

var RecurringFrequencies = []string{RecurringMonthly, RecurringQuarterly, RecurringYearly}

// Installment count bounds for installment-mode donations
const (
	MinInstallments = 2
	MaxInstallments = 12
)

func IsValidDonationType(t string) bool       { return slices.Contains(DonationTypes, t) }
func IsValidDonationStatus(s string) bool     { return slices.Contains(DonationStatuses, s) }
func IsValidFrequency(f string) bool          { return slices.Contains(InstallmentFrequencies, f) }
func IsValidCategory(c string) bool           { return slices.Contains(AllocationCategories, c) }
func IsValidRecurringFrequency(f string) bool { return slices.Contains(RecurringFrequencies, f) }

// IsInstallmentMode returns true if the pledge is paid through a schedule
func (d *Donation) IsInstallmentMode() bool {
	return d.PaymentMode == PaymentModeInstallment
}

// IsTerminal returns true once the donation can no longer receive payments
func (d *Donation) IsTerminal() bool {
	return d.Status == DonationStatusCompleted || d.Status == DonationStatusCancelled
}

// MayReceivePayment returns true if a payment can be posted
func (d *Donation) MayReceivePayment() bool {
	return d.Status == DonationStatusPledged || d.Status == DonationStatusPartial
}

// MayCancel returns true if donation can be cancelled
func (d *Donation) MayCancel() bool {
	return d.Status == DonationStatusPledged || d.Status == DonationStatusPartial
}

// MayIssueReceipt returns true if a tax receipt can be generated
func (d *Donation) MayIssueReceipt() bool {
	return d.Status == DonationStatusCompleted && d.TaxReceiptRequested
}

// Recalculate derives pending amount from total and paid.
func (d *Donation) Recalculate() {
	d.PendingAmount = d.TotalAmount.Sub(d.AmountPaid)
}

// DerivedStatus is the status implied by the amounts, ignoring cancellation.
func (d *Donation) DerivedStatus() string {
	switch {
	case d.AmountPaid.GreaterThanOrEqual(d.TotalAmount):
		return DonationStatusCompleted
	case d.AmountPaid.IsPositive():
		return DonationStatusPartial
	default:
		return DonationStatusPledged
	}
}
