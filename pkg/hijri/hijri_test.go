package hijri

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYear(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2023-01-01", 1444},
		{"2024-01-01", 1445},
		{"2025-01-01", 1446},
		{"2025-12-01", 1447},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, _ := time.Parse("2006-01-02", tt.date)
			assert.Equal(t, tt.want, Year(d))
		})
	}
}

func TestFromTime_RamadanStart(t *testing.T) {
	// 1 Ramadan 1446 fell on 1 March 2025; the tabular calendar is within a day of it.
	d := FromTime(time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 1446, d.Year)
	assert.Equal(t, 9, d.Month)
	assert.InDelta(t, 2, d.Day, 1)
}
