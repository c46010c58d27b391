package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUpstream marks a failed call to a third-party API
var ErrUpstream = errors.New("upstream request failed")

// PrayerTimings are the daily prayer times for one location, as "HH:MM" strings in
// the location's local time.
type PrayerTimings struct {
	Fajr     string `json:"Fajr"`
	Sunrise  string `json:"Sunrise"`
	Dhuhr    string `json:"Dhuhr"`
	Asr      string `json:"Asr"`
	Maghrib  string `json:"Maghrib"`
	Isha     string `json:"Isha"`
	Midnight string `json:"Midnight"`
}

// PrayerDay is the part of an Aladhan timings response the API exposes
type PrayerDay struct {
	Timings PrayerTimings `json:"timings"`
	Date    struct {
		Readable string `json:"readable"`
		Hijri    struct {
			Date  string `json:"date"`
			Month struct {
				En string `json:"en"`
			} `json:"month"`
			Year string `json:"year"`
		} `json:"hijri"`
	} `json:"date"`
	Meta struct {
		Timezone string `json:"timezone"`
		Method   struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"method"`
	} `json:"meta"`
}

type aladhanEnvelope struct {
	Code   int       `json:"code"`
	Status string    `json:"status"`
	Data   PrayerDay `json:"data"`
}

// PrayerTimesClient calls an Aladhan-compatible prayer times API
type PrayerTimesClient struct {
	http *resty.Client
}

// NewPrayerTimesClient creates a client with a bounded request timeout. It never retries.
func NewPrayerTimesClient(baseURL string, timeout time.Duration) *PrayerTimesClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &PrayerTimesClient{http: client}
}

// Timings fetches the prayer times of date at the given coordinates using a
// calculation method ID.
func (c *PrayerTimesClient) Timings(ctx context.Context, lat, lng float64, method int, date time.Time) (*PrayerDay, error) {
	var envelope aladhanEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("date", date.Format("02-01-2006")).
		SetQueryParams(map[string]string{
			"latitude":  fmt.Sprintf("%.4f", lat),
			"longitude": fmt.Sprintf("%.4f", lng),
			"method":    fmt.Sprintf("%d", method),
		}).
		SetResult(&envelope).
		Get("/timings/{date}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() != http.StatusOK || envelope.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: prayer times API returned %d %s", ErrUpstream, resp.StatusCode(), envelope.Status)
	}
	return &envelope.Data, nil
}
