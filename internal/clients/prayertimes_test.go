package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aladhanBody = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {"Fajr": "05:12", "Sunrise": "06:29", "Dhuhr": "12:32", "Asr": "15:52", "Maghrib": "18:35", "Isha": "19:48", "Midnight": "00:32"},
    "date": {"readable": "02 Mar 2025", "hijri": {"date": "02-09-1446", "month": {"en": "Ramaḍān"}, "year": "1446"}},
    "meta": {"timezone": "Asia/Kolkata", "method": {"id": 1, "name": "University of Islamic Sciences, Karachi"}}
  }
}`

func TestPrayerTimesClient_Timings(t *testing.T) {
	var gotPath, gotLat, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLat = r.URL.Query().Get("latitude")
		gotMethod = r.URL.Query().Get("method")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(aladhanBody))
	}))
	defer srv.Close()

	client := NewPrayerTimesClient(srv.URL, time.Second)
	day, err := client.Timings(context.Background(), 12.97159, 77.59456, 1, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "/timings/02-03-2025", gotPath)
	assert.Equal(t, "12.9716", gotLat)
	assert.Equal(t, "1", gotMethod)
	assert.Equal(t, "05:12", day.Timings.Fajr)
	assert.Equal(t, "1446", day.Date.Hijri.Year)
	assert.Equal(t, "Asia/Kolkata", day.Meta.Timezone)
}

func TestPrayerTimesClient_UpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewPrayerTimesClient(srv.URL, time.Second).Timings(context.Background(), 0, 0, 2, time.Now())
	assert.ErrorIs(t, err, ErrUpstream)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	_, err = NewPrayerTimesClient(slow.URL, 50*time.Millisecond).Timings(context.Background(), 0, 0, 2, time.Now())
	assert.ErrorIs(t, err, ErrUpstream)
}
