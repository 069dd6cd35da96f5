package domain

// Interval is a bucketing granularity for history queries.
type Interval string

const (
	IntervalHour  Interval = "hour"
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// Intervals lists the granularities accepted by the read API,
// in the order they are reported to clients.
var Intervals = []Interval{IntervalHour, IntervalDay, IntervalWeek, IntervalMonth}

// Valid reports whether the interval is one of the allowed granularities.
func (i Interval) Valid() bool {
	switch i {
	case IntervalHour, IntervalDay, IntervalWeek, IntervalMonth:
		return true
	}
	return false
}

func (i Interval) String() string {
	return string(i)
}
