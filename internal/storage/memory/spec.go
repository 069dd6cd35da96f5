package memory

import (
	"sort"
	"time"

	"thorchain-history/internal/query"
)

// applySpec applies the read-statement semantics over an in-memory
// snapshot: date-range filter, one representative row per interval
// bucket, ordering, and pagination. With an interval active the
// representative is the first row of the bucket under the requested
// direction and buckets come out chronologically, matching the
// DISTINCT ON selection the postgres stores run.
//
// sortBy columns beyond the time ordering are not modelled here; the
// postgres integration tests cover them.
func applySpec[T any](rows []*T, spec query.Spec, startTime func(*T) time.Time, endTime func(*T) time.Time) []*T {
	filtered := make([]*T, 0, len(rows))
	for _, r := range rows {
		if spec.Start != nil && startTime(r).Before(*spec.Start) {
			continue
		}
		if spec.End != nil && endTime(r).After(*spec.End) {
			continue
		}
		filtered = append(filtered, r)
	}

	desc := spec.Order == "DESC"
	sort.SliceStable(filtered, func(i, j int) bool {
		if desc {
			return startTime(filtered[i]).After(startTime(filtered[j]))
		}
		return startTime(filtered[i]).Before(startTime(filtered[j]))
	})

	if spec.Interval != "" {
		seen := make(map[time.Time]*T)
		var buckets []time.Time
		for _, r := range filtered {
			b := query.TruncateTime(startTime(r), spec.Interval)
			if _, ok := seen[b]; !ok {
				seen[b] = r
				buckets = append(buckets, b)
			}
		}
		sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

		filtered = filtered[:0]
		for _, b := range buckets {
			filtered = append(filtered, seen[b])
		}
	}

	if spec.Offset >= int64(len(filtered)) {
		return nil
	}
	filtered = filtered[spec.Offset:]
	if spec.Limit < int64(len(filtered)) {
		filtered = filtered[:spec.Limit]
	}

	out := make([]*T, len(filtered))
	copy(out, filtered)
	return out
}

// maxEndTime returns the latest end time over all rows, false if empty.
func maxEndTime[T any](rows []*T, endTime func(*T) time.Time) (time.Time, bool) {
	if len(rows) == 0 {
		return time.Time{}, false
	}
	max := endTime(rows[0])
	for _, r := range rows[1:] {
		if et := endTime(r); et.After(max) {
			max = et
		}
	}
	return max, true
}
