package models

import (
	"fmt"
	"slices"
	"time"
)

// Identifier prefixes handed to the sequence generator.
const (
	PrefixDonor       = "HKS-D"
	PrefixDonation    = "HKS-T"
	PrefixInstallment = "HKS-I"
	PrefixDonorLog    = "HKS-L"
)

// CurrencyINR is the only currency the ledger books.
const CurrencyINR = "INR"

// FormatID renders a sequence value as "<prefix>-00042". Values past 99999 keep growing.
func FormatID(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// Sequence is a named monotonic counter backing FormatID.
type Sequence struct {
	Name      string    `gorm:"primaryKey;size:20" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Sequence
func (Sequence) TableName() string {
	return "sequences"
}

// Payment method constants, shared by donations, installments and the payment ledger
const (
	PaymentMethodCash         = "Cash"
	PaymentMethodUPI          = "UPI"
	PaymentMethodBankTransfer = "Bank_Transfer"
	PaymentMethodCard         = "Card"
	PaymentMethodCheque       = "Cheque"
	PaymentMethodOnline       = "Online"
)

var PaymentMethods = []string{
	PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer,
	PaymentMethodCard, PaymentMethodCheque, PaymentMethodOnline,
}

// IsValidPaymentMethod reports whether m is one of the accepted payment methods.
func IsValidPaymentMethod(m string) bool {
	return slices.Contains(PaymentMethods, m)
}
