package query

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and bind parameters.
type stmt struct {
	sb   strings.Builder
	args []any
}

func (s *stmt) push(text string) {
	s.sb.WriteString(text)
}

// bind registers a parameter and returns its placeholder.
func (s *stmt) bind(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

// BuildSelect composes the read statement for a plain series table.
// The table name and validated Spec identifiers are interpolated;
// all user-supplied filter values are bound.
func BuildSelect(table string, spec Spec) (string, []any) {
	st := &stmt{}

	if spec.Interval == "" {
		st.push("SELECT * FROM " + table)
	} else {
		st.push(fmt.Sprintf("SELECT DISTINCT ON (date_trunc('%s', start_time)) * FROM %s", spec.Interval, table))
	}

	appendRange(st, " WHERE ", spec)
	st.push(orderClause(spec))
	appendPagination(st, spec)

	return st.sb.String(), st.args
}

// earningsBody is the aggregated selection for the earnings series:
// parent columns plus the per-pool breakdown re-assembled as a JSON
// array. Bigints are cast to text so the array matches the API's
// string-encoded numbers; the FILTER keeps windows without pool rows
// as an empty array instead of [null].
const earningsBody = `
	e.start_time,
	e.end_time,
	e.liquidity_fees,
	e.block_rewards,
	e.earnings,
	e.bonding_earnings,
	e.liquidity_earnings,
	e.avg_node_count,
	e.rune_price_usd,
	coalesce(json_agg(json_build_object(
		'pool', pe.pool,
		'assetLiquidityFees', pe.asset_liquidity_fees::text,
		'runeLiquidityFees', pe.rune_liquidity_fees::text,
		'totalLiquidityFeesRune', pe.total_liquidity_fees_rune::text,
		'saverEarning', pe.saver_earning::text,
		'rewards', pe.rewards::text,
		'earnings', pe.earnings::text
	)) FILTER (WHERE pe.id IS NOT NULL), '[]') AS pools
FROM earnings_history e
LEFT JOIN pool_earnings pe ON e.id = pe.earnings_history_id
GROUP BY e.start_time, e.end_time, e.liquidity_fees, e.block_rewards, e.earnings, e.bonding_earnings, e.liquidity_earnings, e.avg_node_count, e.rune_price_usd`

// BuildEarningsSelect composes the aggregated read statement for the
// earnings series. Because the selection groups, the date-range filter
// lands in HAVING: start_time and end_time only exist per group.
func BuildEarningsSelect(spec Spec) (string, []any) {
	st := &stmt{}

	if spec.Interval == "" {
		st.push("SELECT" + earningsBody)
	} else {
		st.push(fmt.Sprintf("SELECT DISTINCT ON (date_trunc('%s', e.start_time))%s", spec.Interval, earningsBody))
	}

	appendRange(st, " HAVING ", spec)
	st.push(earningsOrderClause(spec))
	appendPagination(st, spec)

	return st.sb.String(), st.args
}

// appendRange adds the date-range predicates behind the given keyword
// (WHERE for plain selects, HAVING for aggregated ones).
func appendRange(st *stmt, keyword string, spec Spec) {
	if spec.Start == nil && spec.End == nil {
		return
	}
	st.push(keyword)
	if spec.Start != nil {
		st.push("start_time >= " + st.bind(*spec.Start))
	}
	if spec.End != nil {
		if spec.Start != nil {
			st.push(" AND ")
		}
		st.push("end_time <= " + st.bind(*spec.End))
	}
}

// orderClause builds the sort clause. With an interval active the
// truncated bucket is always the primary key, so bucketed results stay
// chronological regardless of the requested sort column.
func orderClause(spec Spec) string {
	switch {
	case spec.Interval == "" && spec.SortBy == "":
		return " ORDER BY start_time " + spec.Order
	case spec.Interval == "":
		return fmt.Sprintf(" ORDER BY %s %s", spec.SortBy, spec.Order)
	case spec.SortBy == "":
		return fmt.Sprintf(" ORDER BY date_trunc('%s', start_time), start_time %s", spec.Interval, spec.Order)
	default:
		return fmt.Sprintf(" ORDER BY date_trunc('%s', start_time), start_time, %s %s", spec.Interval, spec.SortBy, spec.Order)
	}
}

// earningsOrderClause mirrors orderClause with the aliased column the
// DISTINCT ON expression requires.
func earningsOrderClause(spec Spec) string {
	switch {
	case spec.Interval == "" && spec.SortBy == "":
		return " ORDER BY start_time " + spec.Order
	case spec.Interval == "":
		return fmt.Sprintf(" ORDER BY %s %s", spec.SortBy, spec.Order)
	case spec.SortBy == "":
		return fmt.Sprintf(" ORDER BY date_trunc('%s', e.start_time), start_time %s", spec.Interval, spec.Order)
	default:
		return fmt.Sprintf(" ORDER BY date_trunc('%s', e.start_time), start_time, %s %s", spec.Interval, spec.SortBy, spec.Order)
	}
}

func appendPagination(st *stmt, spec Spec) {
	st.push(" LIMIT " + st.bind(spec.Limit))
	st.push(" OFFSET " + st.bind(spec.Offset))
}
