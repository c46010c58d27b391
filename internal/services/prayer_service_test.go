package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hikmahsphere/hikmah-api/internal/cache"
	"github.com/hikmahsphere/hikmah-api/internal/clients"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrayerAPI struct {
	calls  int
	method int
	err    error
}

func (f *fakePrayerAPI) Timings(ctx context.Context, lat, lng float64, method int, date time.Time) (*clients.PrayerDay, error) {
	f.calls++
	f.method = method
	if f.err != nil {
		return nil, f.err
	}
	day := &clients.PrayerDay{}
	day.Timings.Fajr = "05:12"
	return day, nil
}

func TestPrayerTimeService_CachesPerLocation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	api := &fakePrayerAPI{}
	service := NewPrayerTimeService(api, cache.New(client, 200*time.Millisecond), time.Hour)
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	q := PrayerTimesQuery{Latitude: 12.97159, Longitude: 77.59456, Date: &date}

	day, err := service.Timings(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "05:12", day.Timings.Fajr)
	assert.Equal(t, DefaultPrayerMethod, api.method)

	_, err = service.Timings(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)
	assert.True(t, mr.Exists("prayer:12.9716:77.5946:1:2025-03-02"))

	other := q
	other.Latitude = 21.4225
	_, err = service.Timings(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
}

func TestPrayerTimeService_UpstreamFailure(t *testing.T) {
	api := &fakePrayerAPI{err: errors.New("connection refused")}
	service := NewPrayerTimeService(api, nil, time.Hour)

	_, err := service.Timings(context.Background(), PrayerTimesQuery{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestPrayerTimeService_RejectsBadCoordinates(t *testing.T) {
	service := NewPrayerTimeService(&fakePrayerAPI{}, nil, time.Hour)

	_, err := service.Timings(context.Background(), PrayerTimesQuery{Latitude: 95, Longitude: 200})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("latitude"))
	assert.True(t, verr.Has("longitude"))
}
