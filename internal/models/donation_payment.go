package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationPayment is one posting against a donation. Rows are only ever appended.
type DonationPayment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	DonationID     string          `gorm:"size:20;not null;index" json:"donation_id"`
	InstallmentID  *string         `gorm:"size:20;index" json:"installment_id,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentMethod  string          `gorm:"size:20;not null;index" json:"payment_method"`
	TransactionRef *string         `gorm:"size:100" json:"transaction_ref,omitempty"`
	PaidAt         time.Time       `gorm:"not null;index" json:"paid_at"`
	RecordedBy     string          `gorm:"size:50" json:"recorded_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TableName specifies the table name for GORM
func (DonationPayment) TableName() string {
	return "donation_payments"
}
