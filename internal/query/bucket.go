package query

import (
	"time"

	"thorchain-history/internal/domain"
)

// TruncateTime truncates t to the start of its interval bucket,
// matching Postgres date_trunc semantics (weeks start on Monday, UTC).
func TruncateTime(t time.Time, iv domain.Interval) time.Time {
	t = t.UTC()
	switch iv {
	case domain.IntervalHour:
		return t.Truncate(time.Hour)
	case domain.IntervalDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case domain.IntervalWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}
