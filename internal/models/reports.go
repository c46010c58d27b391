package models

import (
	"github.com/shopspring/decimal"
)

// StatusTotal is one row of a per-status rollup
type StatusTotal struct {
	Status        string          `json:"status"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// DonationTotals is the donation rollup across all statuses
type DonationTotals struct {
	ByStatus     []StatusTotal   `json:"by_status"`
	Count        int64           `json:"count"`
	TotalPledged decimal.Decimal `json:"total_pledged"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
	CurrencyCode string          `json:"currency"`
}

// BreakdownRow is one group of a donation breakdown
type BreakdownRow struct {
	Key         string          `gorm:"column:group_key" json:"key"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

// Breakdown dimensions
const (
	BreakdownCategory      = "category"
	BreakdownDonationType  = "type"
	BreakdownPaymentMethod = "method"
	BreakdownHijriYear     = "hijri_year"
)

var BreakdownDimensions = []string{
	BreakdownCategory, BreakdownDonationType, BreakdownPaymentMethod, BreakdownHijriYear,
}

// InstallmentTotal is one effective-status group of installments
type InstallmentTotal struct {
	Status string          `gorm:"column:effective_status" json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DonorRank is one entry in the top donors list
type DonorRank struct {
	Rank          int             `json:"rank"`
	DonorID       string          `json:"donor_id"`
	FullName      string          `json:"full_name"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	DonationCount int64           `json:"donation_count"`
}
