package domain

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnixTime is a time.Time that crosses JSON as an epoch-seconds string,
// matching Midgard's wire encoding for startTime/endTime.
type UnixTime struct {
	time.Time
}

// NewUnixTime wraps t, normalized to UTC.
func NewUnixTime(t time.Time) UnixTime {
	return UnixTime{t.UTC()}
}

// MarshalJSON encodes the time as a quoted epoch-seconds string.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(t.Unix(), 10))), nil
}

// UnmarshalJSON accepts epoch seconds either quoted or bare.
func (t *UnixTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse unix timestamp %q: %w", s, err)
	}
	t.Time = time.Unix(secs, 0).UTC()
	return nil
}

// Scan implements sql.Scanner so timestamptz columns decode directly.
func (t *UnixTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into UnixTime", src)
	}
}

// Value implements driver.Valuer.
func (t UnixTime) Value() (driver.Value, error) {
	return t.Time, nil
}
