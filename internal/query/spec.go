package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"thorchain-history/internal/domain"
)

// Params holds the raw read-API options as received from a request,
// before any validation.
type Params struct {
	Interval  string
	DateRange string
	SortBy    string
	Order     string
	Limit     int64
	Page      int64
}

// Spec is a validated, request-scoped query specification.
type Spec struct {
	Interval domain.Interval // empty means no bucketing
	Start    *time.Time      // inclusive lower bound on start_time
	End      *time.Time      // inclusive upper bound on end_time
	SortBy   string          // validated column name, empty means default
	Order    string          // "ASC" or "DESC"
	Limit    int64
	Offset   int64
}

// ValidationError marks a client-input problem. The API layer maps it
// to a 400 response; everything else is a server error.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

const dateLayout = "2006-01-02"

// ParseSpec validates raw params into a Spec. sortColumns is the
// allow-list of sortable column names for the target table; sortBy
// values outside it are rejected rather than interpolated.
func ParseSpec(p Params, sortColumns []string) (Spec, error) {
	var spec Spec

	if p.Interval != "" {
		iv := domain.Interval(p.Interval)
		if !iv.Valid() {
			return Spec{}, validationErrorf("invalid interval %q, allowed intervals: %v", p.Interval, domain.Intervals)
		}
		spec.Interval = iv
	}

	if p.DateRange != "" {
		// Only the first two comma-separated parts matter; extras
		// are ignored rather than rejected.
		parts := strings.Split(p.DateRange, ",")
		if s := strings.TrimSpace(parts[0]); s != "" {
			start, err := time.Parse(dateLayout, s)
			if err != nil {
				return Spec{}, validationErrorf("invalid dateRange start %q, expected YYYY-MM-DD", s)
			}
			spec.Start = &start
		}
		if len(parts) > 1 {
			if s := strings.TrimSpace(parts[1]); s != "" {
				end, err := time.Parse(dateLayout, s)
				if err != nil {
					return Spec{}, validationErrorf("invalid dateRange end %q, expected YYYY-MM-DD", s)
				}
				spec.End = &end
			}
		}
	}

	if p.SortBy != "" {
		if !slices.Contains(sortColumns, p.SortBy) {
			return Spec{}, validationErrorf("invalid sortBy column %q", p.SortBy)
		}
		spec.SortBy = p.SortBy
	}

	switch strings.ToUpper(p.Order) {
	case "":
		spec.Order = "ASC"
	case "ASC":
		spec.Order = "ASC"
	case "DESC":
		spec.Order = "DESC"
	default:
		return Spec{}, validationErrorf("invalid order %q, allowed: ASC, DESC", p.Order)
	}

	if p.Limit < 0 {
		return Spec{}, validationErrorf("invalid limit %d, must not be negative", p.Limit)
	}
	if p.Page < 0 {
		return Spec{}, validationErrorf("invalid page %d, must not be negative", p.Page)
	}
	limit := p.Limit
	if limit == 0 {
		limit = 10
	}
	page := p.Page
	if page == 0 {
		page = 1
	}
	spec.Limit = limit
	spec.Offset = (page - 1) * limit

	return spec, nil
}
