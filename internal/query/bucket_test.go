package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"thorchain-history/internal/domain"
)

func TestTruncateTime(t *testing.T) {
	// 2024-01-10 is a Wednesday.
	at := time.Date(2024, 1, 10, 15, 42, 7, 0, time.UTC)

	cases := []struct {
		interval domain.Interval
		want     time.Time
	}{
		{domain.IntervalHour, time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)},
		{domain.IntervalDay, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		// date_trunc weeks start on Monday.
		{domain.IntervalWeek, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{domain.IntervalMonth, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(string(tc.interval), func(t *testing.T) {
			assert.Equal(t, tc.want, TruncateTime(at, tc.interval))
		})
	}
}

func TestTruncateTime_WeekOnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TruncateTime(sunday, domain.IntervalWeek))
}

func TestTruncateTime_MonthBoundary(t *testing.T) {
	first := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, first, TruncateTime(first, domain.IntervalMonth))
}
