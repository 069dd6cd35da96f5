package postgres

import (
	"context"
	"fmt"
	"time"
)

// latestEndTime reads max(end_time) for a series table. The table name
// comes from the owning store, never from request input. Returns false
// when the table is empty.
func latestEndTime(ctx context.Context, pool *Pool, table string) (time.Time, bool, error) {
	var max *time.Time

	sql := fmt.Sprintf("SELECT max(end_time) FROM %s", table)
	if err := pool.QueryRow(ctx, sql).Scan(&max); err != nil {
		return time.Time{}, false, fmt.Errorf("select %s watermark: %w", table, err)
	}
	if max == nil {
		return time.Time{}, false, nil
	}
	return max.UTC(), true, nil
}
