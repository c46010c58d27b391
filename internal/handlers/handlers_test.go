package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hikmahsphere/hikmah-api/internal/config"
	"github.com/hikmahsphere/hikmah-api/internal/jobs"
	"github.com/hikmahsphere/hikmah-api/internal/repository"
	"github.com/hikmahsphere/hikmah-api/internal/services"
	"github.com/hikmahsphere/hikmah-api/internal/storage"
	"github.com/hikmahsphere/hikmah-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "handler-test-secret"

type apiFixture struct {
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	cfg := &config.Config{
		JWTSecret:              handlerTestSecret,
		IdentityProofThreshold: decimal.NewFromInt(50000),
		DefaultGracePeriodDays: 7,
		ReminderLeadDays:       3,
		PrayerAPIBaseURL:       "http://127.0.0.1:1",
		UpstreamTimeout:        time.Second,
		PrayerTimesTTL:         time.Hour,
		OverdueSweepCron:       "0 * * * *",
		ReminderCron:           "0 9 * * *",
		LogRetentionCron:       "30 2 * * *",
	}
	svcs := services.NewServices(repository.NewRepositories(db), worker, store, nil, cfg)
	require.NoError(t, svcs.Job.Schedule(cfg))

	router := gin.New()
	Register(router.Group("/api/v1"), NewHandlers(svcs, nil), cfg.JWTSecret)

	token, err := svcs.Auth.IssueToken("ops-1", services.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return &apiFixture{router: router, token: token}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder, key string) T {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(envelope[key], &out), w.Body.String())
	return out
}

type donorBody struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	TotalDonations int64           `json:"total_donations"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

type donationBody struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	ReceiptNumber *string         `json:"receipt_number"`
	Installments  []struct {
		ID     string          `json:"id"`
		Amount decimal.Decimal `json:"amount"`
	} `json:"installments"`
}

func (f *apiFixture) createDonor(t *testing.T, phone string) donorBody {
	t.Helper()
	w := f.do(t, http.MethodPost, "/donors", map[string]any{
		"donor": map[string]any{"full_name": "Ayesha Siddiqui", "donor_type": "Individual", "phone": phone},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[donorBody](t, w, "donor")
}

func TestAPI_RequiresAdminToken(t *testing.T) {
	f := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/donors", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_InstallmentDonationLifecycle(t *testing.T) {
	f := newAPI(t)
	donor := f.createDonor(t, "+919812345678")

	w := f.do(t, http.MethodPost, "/donations", map[string]any{
		"donor_id":               donor.ID,
		"donation_type":          "Zakat_Maal",
		"total_amount":           "1000",
		"payment_mode":           "Installment",
		"number_of_installments": 3,
		"payment_method":         "UPI",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	donation := decode[donationBody](t, w, "donation")
	require.Len(t, donation.Installments, 3)
	assert.Equal(t, "Pledged", donation.Status)

	sum := decimal.Zero
	for _, inst := range donation.Installments {
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(1000)))

	first := donation.Installments[0].ID
	w = f.do(t, http.MethodPost, "/installments/"+first+"/pay", map[string]any{"payment_method": "Cash"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/installments/"+first+"/pay", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/donations/"+donation.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	donation = decode[donationBody](t, w, "donation")
	assert.Equal(t, "Partial", donation.Status)
	assert.True(t, donation.AmountPaid.Equal(decimal.RequireFromString("333.33")))

	for _, inst := range donation.Installments[1:] {
		w = f.do(t, http.MethodPost, "/installments/"+inst.ID+"/pay", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/donations/"+donation.ID, nil)
	donation = decode[donationBody](t, w, "donation")
	assert.Equal(t, "Completed", donation.Status)
	assert.True(t, donation.PendingAmount.IsZero())

	w = f.do(t, http.MethodGet, "/donors/"+donor.ID, nil)
	stats := decode[donorBody](t, w, "donor")
	assert.Equal(t, int64(1), stats.TotalDonations)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(1000)))

	w = f.do(t, http.MethodPost, "/donations/"+donation.ID+"/cancel", map[string]any{"reason": "changed mind"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/donor-logs?donor_id="+donor.ID+"&action=DONATION_COMPLETED", nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]map[string]any](t, w, "donor_logs")
	assert.Len(t, logs, 1)
}

func TestAPI_ValidationAndNotFound(t *testing.T) {
	f := newAPI(t)
	donor := f.createDonor(t, "9876543210")

	w := f.do(t, http.MethodPost, "/donations", map[string]any{
		"donor_id":               donor.ID,
		"donation_type":          "Gift",
		"total_amount":           "0",
		"payment_mode":           "Installment",
		"number_of_installments": 13,
		"payment_method":         "UPI",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decode[[]services.FieldError](t, w, "fields")
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"donation_type", "total_amount", "number_of_installments"}, names)

	w = f.do(t, http.MethodPost, "/donations", map[string]any{
		"donor_id":       "HKS-D-999999",
		"donation_type":  "Sadaqah",
		"total_amount":   "50",
		"payment_mode":   "Full",
		"payment_method": "Cash",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/installments/HKS-I-000404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/donors", map[string]any{"full_name": "Copy", "donor_type": "Individual", "phone": "9876543210"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"phone"`)

	w = f.do(t, http.MethodGet, "/donors?status=Sleeping", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPI_FullPaymentReceiptAndReports(t *testing.T) {
	f := newAPI(t)
	donor := f.createDonor(t, "+14155550123")

	w := f.do(t, http.MethodPost, "/donations", map[string]any{
		"donor_id":              donor.ID,
		"donation_type":         "Sadaqah",
		"total_amount":          "2500.50",
		"payment_mode":          "Full",
		"payment_method":        "Bank_Transfer",
		"allocation_category":   "Education",
		"tax_receipt_requested": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	donation := decode[donationBody](t, w, "donation")

	w = f.do(t, http.MethodPost, "/donations/"+donation.ID+"/receipt", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "receipt before completion")

	w = f.do(t, http.MethodPost, "/donations/"+donation.ID+"/payments", map[string]any{"amount": "3000"})
	assert.Equal(t, http.StatusConflict, w.Code, "overpayment")

	w = f.do(t, http.MethodPost, "/donations/"+donation.ID+"/payments", map[string]any{"amount": "2500.50", "transaction_ref": "NEFT-7781"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Completed", decode[donationBody](t, w, "donation").Status)

	w = f.do(t, http.MethodPost, "/donations/"+donation.ID+"/receipt", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	issued := decode[donationBody](t, w, "donation")
	require.NotNil(t, issued.ReceiptNumber)
	assert.True(t, strings.HasPrefix(*issued.ReceiptNumber, "RCPT-"))

	w = f.do(t, http.MethodPost, "/donations/"+donation.ID+"/receipt", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "second receipt")

	w = f.do(t, http.MethodGet, "/donations/"+donation.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = f.do(t, http.MethodGet, "/reports/donations/breakdown?by=category", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Education")

	w = f.do(t, http.MethodGet, "/reports/donations/breakdown?by=weather", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(t, http.MethodGet, "/reports/donations/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), donation.ID)

	w = f.do(t, http.MethodGet, "/reports/donations/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	w = f.do(t, http.MethodGet, "/reports/donors/ranking?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), donor.ID)
}

func TestAPI_PrayerTimesRequiresCoordinates(t *testing.T) {
	f := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prayer-times?latitude=12.97", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "longitude")

	// Upstream points at a closed port
	req = httptest.NewRequest(http.MethodGet, "/api/v1/prayer-times?latitude=12.97&longitude=77.59", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAPI_Jobs(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/jobs/overdue_sweep/run", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = f.do(t, http.MethodPost, "/jobs/compact_everything/run", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/jobs/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "installment_reminders")
}
