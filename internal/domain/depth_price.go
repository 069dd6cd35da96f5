package domain

import "github.com/shopspring/decimal"

// DepthPriceHistory is one hourly window of the BTC.BTC depth/price series.
// Integer fields carry the `,string` option because Midgard encodes all
// numbers as JSON strings; the read API preserves that shape.
type DepthPriceHistory struct {
	ID             int64           `json:"-"`
	StartTime      UnixTime        `json:"startTime"`
	EndTime        UnixTime        `json:"endTime"`
	AssetDepth     int64           `json:"assetDepth,string"`
	RuneDepth      int64           `json:"runeDepth,string"`
	AssetPrice     decimal.Decimal `json:"assetPrice"`
	AssetPriceUSD  decimal.Decimal `json:"assetPriceUSD"`
	LiquidityUnits int64           `json:"liquidityUnits,string"`
	MembersCount   int64           `json:"membersCount,string"`
	SynthUnits     int64           `json:"synthUnits,string"`
	SynthSupply    int64           `json:"synthSupply,string"`
	Units          int64           `json:"units,string"`
	Luvi           decimal.Decimal `json:"luvi"`
}
