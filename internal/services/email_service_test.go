package services

import (
	"testing"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/config"
	"github.com/hikmahsphere/hikmah-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestEmailService_checkEmailPreconditions(t *testing.T) {
	email := "aisha@example.com"
	optedIn := &models.Donor{
		ID:          "HKS-D-00001",
		FullName:    "Aisha Khan",
		Email:       &email,
		Preferences: datatypes.NewJSONType(models.DonorPreferences{Email: true}),
	}

	// Configured and opted in
	service := NewEmailService(&config.Config{ResendAPIKey: "test_key", FromEmail: "from@example.com"})
	ok, err := service.checkEmailPreconditions(optedIn)
	assert.True(t, ok)
	assert.NoError(t, err)

	// Missing key
	service = NewEmailService(&config.Config{FromEmail: "from@example.com"})
	ok, err = service.checkEmailPreconditions(optedIn)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY is not set")

	// No address
	service = NewEmailService(&config.Config{ResendAPIKey: "test_key"})
	ok, err = service.checkEmailPreconditions(&models.Donor{ID: "HKS-D-00002"})
	assert.False(t, ok)
	assert.EqualError(t, err, "email address is empty")

	// Not opted in: skipped quietly
	optedOut := *optedIn
	optedOut.Preferences = datatypes.NewJSONType(models.DonorPreferences{SMS: true})
	ok, err = service.checkEmailPreconditions(&optedOut)
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestEmailService_renderReminder(t *testing.T) {
	service := NewEmailService(&config.Config{})

	body, err := service.renderTemplate("installment_reminder.html", map[string]any{
		"Name":        "Aisha Khan",
		"DonationID":  "HKS-T-00007",
		"Number":      2,
		"Total":       4,
		"Amount":      FormatINR(decimal.NewFromInt(12500)),
		"DueDate":     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).Format("02 Jan 2006"),
		"Overdue":     true,
		"DaysOverdue": 9,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "HKS-T-00007")
	assert.Contains(t, body, "₹12,500.00")
	assert.Contains(t, body, "9 day(s) past due")
}
