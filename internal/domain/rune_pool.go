package domain

// RunePoolHistory is one hourly window of RUNEPool member count and units.
type RunePoolHistory struct {
	ID        int64    `json:"-"`
	StartTime UnixTime `json:"startTime"`
	EndTime   UnixTime `json:"endTime"`
	Count     int64    `json:"count,string"`
	Units     int64    `json:"units,string"`
}
