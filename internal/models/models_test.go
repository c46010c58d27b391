package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatID(t *testing.T) {
	assert.Equal(t, "HKS-D-00001", FormatID(PrefixDonor, 1))
	assert.Equal(t, "HKS-T-00042", FormatID(PrefixDonation, 42))
	assert.Equal(t, "HKS-I-99999", FormatID(PrefixInstallment, 99999))
	assert.Equal(t, "HKS-L-100000", FormatID(PrefixDonorLog, 100000))
}

func TestInstallment_EffectiveStatus(t *testing.T) {
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status string
		dueAgo int
		grace  int
		want   string
	}{
		{"due in future", InstallmentStatusPending, -5, 7, InstallmentStatusPending},
		{"inside grace", InstallmentStatusPending, 5, 7, InstallmentStatusPending},
		{"past grace never re-saved", InstallmentStatusPending, 10, 7, InstallmentStatusOverdue},
		{"zero grace day after due", InstallmentStatusPending, 1, 0, InstallmentStatusOverdue},
		{"paid stays paid", InstallmentStatusPaid, 30, 7, InstallmentStatusPaid},
		{"cancelled stays cancelled", InstallmentStatusCancelled, 30, 7, InstallmentStatusCancelled},
		{"stored overdue", InstallmentStatusOverdue, 30, 7, InstallmentStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := &Installment{
				Status:          tt.status,
				DueDate:         now.AddDate(0, 0, -tt.dueAgo),
				GracePeriodDays: tt.grace,
			}
			assert.Equal(t, tt.want, inst.EffectiveStatus(now))
		})
	}
}

func TestInstallment_DaysOverdue(t *testing.T) {
	now := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	inst := &Installment{Status: InstallmentStatusPending, DueDate: now.AddDate(0, 0, -10), GracePeriodDays: 7}

	assert.Equal(t, 10, inst.DaysOverdue(now))
	assert.True(t, inst.MayDefault(now))

	inst.Status = InstallmentStatusPaid
	assert.Equal(t, 0, inst.DaysOverdue(now))
}

func TestDonation_DerivedStatusAndRecalculate(t *testing.T) {
	d := &Donation{TotalAmount: decimal.NewFromInt(50000)}
	d.Recalculate()
	assert.Equal(t, DonationStatusPledged, d.DerivedStatus())
	assert.True(t, d.PendingAmount.Equal(decimal.NewFromInt(50000)))

	d.AmountPaid = decimal.NewFromInt(12500)
	d.Recalculate()
	assert.Equal(t, DonationStatusPartial, d.DerivedStatus())
	assert.True(t, d.PendingAmount.Equal(decimal.NewFromInt(37500)))

	d.AmountPaid = decimal.NewFromInt(50000)
	d.Recalculate()
	assert.Equal(t, DonationStatusCompleted, d.DerivedStatus())
	assert.True(t, d.PendingAmount.IsZero())
}

func TestEnumValidators(t *testing.T) {
	assert.True(t, IsValidDonationType("Zakat_Maal"))
	assert.False(t, IsValidDonationType("zakat"))
	assert.True(t, IsValidPaymentMethod("Bank_Transfer"))
	assert.False(t, IsValidPaymentMethod("Crypto"))
	assert.True(t, IsValidCategory("Orphan_Care"))
	assert.False(t, IsValidFrequency("Daily"))
	assert.True(t, IsValidDonorType("Anonymous"))
}
