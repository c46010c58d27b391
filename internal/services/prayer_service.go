package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hikmahsphere/hikmah-api/internal/cache"
	"github.com/hikmahsphere/hikmah-api/internal/clients"
	"github.com/hikmahsphere/hikmah-api/pkg/logger"
)

// DefaultPrayerMethod is the Karachi calculation method, common across South Asia.
const DefaultPrayerMethod = 1

// PrayerTimesFetcher is the upstream prayer times API
type PrayerTimesFetcher interface {
	Timings(ctx context.Context, lat, lng float64, method int, date time.Time) (*clients.PrayerDay, error)
}

// PrayerTimesQuery selects a location, calculation method and day
type PrayerTimesQuery struct {
	Latitude  float64    `form:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64    `form:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
	Method    *int       `form:"method" json:"method" validate:"omitempty,gte=0,lte=23"`
	Date      *time.Time `form:"date" json:"date" time_format:"2006-01-02" time_utc:"1"`
}

// PrayerTimeService serves prayer times through the response cache
type PrayerTimeService struct {
	upstream PrayerTimesFetcher
	cache    *cache.Cache
	ttl      time.Duration
}

// NewPrayerTimeService creates a new prayer time service. c may be nil.
func NewPrayerTimeService(upstream PrayerTimesFetcher, c *cache.Cache, ttl time.Duration) *PrayerTimeService {
	return &PrayerTimeService{upstream: upstream, cache: c, ttl: ttl}
}

// Timings returns the prayer times for the query, cached per location, method and day.
func (s *PrayerTimeService) Timings(ctx context.Context, q PrayerTimesQuery) (*clients.PrayerDay, error) {
	if err := validateStruct(q).OrNil(); err != nil {
		return nil, err
	}

	method := DefaultPrayerMethod
	if q.Method != nil {
		method = *q.Method
	}
	date := time.Now().UTC()
	if q.Date != nil {
		date = *q.Date
	}

	// Coordinates are rounded to four decimals (about 11 m) so nearby requests share an entry.
	key := cache.Key("prayer",
		strconv.FormatFloat(q.Latitude, 'f', 4, 64),
		strconv.FormatFloat(q.Longitude, 'f', 4, 64),
		strconv.Itoa(method),
		date.Format("2006-01-02"))

	day, err := cache.GetOrFetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*clients.PrayerDay, error) {
		return s.upstream.Timings(ctx, q.Latitude, q.Longitude, method, date)
	})
	if err != nil {
		logger.Warn("[PrayerTimeService] upstream unavailable", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return day, nil
}
