package domain

import "github.com/shopspring/decimal"

// EarningsHistory is one hourly window of network earnings, split per
// liquidity pool in Pools. Persisted as a parent row plus pool_earnings
// child rows; reads re-assemble Pools via a JSON aggregation.
type EarningsHistory struct {
	ID                int64           `json:"-"`
	StartTime         UnixTime        `json:"startTime"`
	EndTime           UnixTime        `json:"endTime"`
	LiquidityFees     int64           `json:"liquidityFees,string"`
	BlockRewards      int64           `json:"blockRewards,string"`
	Earnings          int64           `json:"earnings,string"`
	BondingEarnings   int64           `json:"bondingEarnings,string"`
	LiquidityEarnings int64           `json:"liquidityEarnings,string"`
	AvgNodeCount      decimal.Decimal `json:"avgNodeCount"`
	RunePriceUSD      decimal.Decimal `json:"runePriceUSD"`
	Pools             []PoolEarnings  `json:"pools"`
}

// PoolEarnings is the per-pool breakdown of an earnings window.
type PoolEarnings struct {
	Pool                   string `json:"pool"`
	AssetLiquidityFees     int64  `json:"assetLiquidityFees,string"`
	RuneLiquidityFees      int64  `json:"runeLiquidityFees,string"`
	TotalLiquidityFeesRune int64  `json:"totalLiquidityFeesRune,string"`
	SaverEarning           int64  `json:"saverEarning,string"`
	Rewards                int64  `json:"rewards,string"`
	Earnings               int64  `json:"earnings,string"`
}
