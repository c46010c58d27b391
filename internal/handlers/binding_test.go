package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type pledge struct {
	DonorID string          `json:"donor_id"`
	Amount  decimal.Decimal `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    pledge
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "donation",
			body:     `{"donation": {"donor_id": "HKS-D-000001", "amount": "1500.50"}}`,
			expected: pledge{DonorID: "HKS-D-000001", Amount: decimal.RequireFromString("1500.50")},
		},
		{
			name:     "Flat Structure",
			key:      "donation",
			body:     `{"donor_id": "HKS-D-000002", "amount": 250}`,
			expected: pledge{DonorID: "HKS-D-000002", Amount: decimal.NewFromInt(250)},
		},
		{
			name:     "Missing Key Falls Back to Flat",
			key:      "donation",
			body:     `{"other": "value", "donor_id": "HKS-D-000003", "amount": "10"}`,
			expected: pledge{DonorID: "HKS-D-000003", Amount: decimal.NewFromInt(10)},
		},
		{
			name:        "Invalid Amount",
			key:         "donation",
			body:        `{"donor_id": "HKS-D-000004", "amount": "ten"}`,
			expectError: true,
		},
		{
			name:        "Nested but Invalid Content",
			key:         "donation",
			body:        `{"donation": {"donor_id": 7}}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "donation",
			body:        `{"donation": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result pledge
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected.DonorID, result.DonorID)
				assert.True(t, tt.expected.Amount.Equal(result.Amount))
			}
		})
	}
}

func TestBindNestedOrFlat_DonorInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(
		`{"donor": {"full_name": "Ayesha Siddiqui", "donor_type": "Individual", "phone": "+919812345678", "email": "ayesha@example.org"}}`))

	var input services.DonorInput
	assert.NoError(t, BindNestedOrFlat(c, "donor", &input))
	assert.Equal(t, "Ayesha Siddiqui", input.FullName)
	assert.Equal(t, "+919812345678", input.Phone)
	if assert.NotNil(t, input.Email) {
		assert.Equal(t, "ayesha@example.org", *input.Email)
	}
}
