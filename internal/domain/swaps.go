package domain

import "github.com/shopspring/decimal"

// SwapsHistory is one hourly window of network-wide swap activity,
// broken down by direction (to/from asset, rune, trade, synth).
type SwapsHistory struct {
	ID        int64    `json:"-"`
	StartTime UnixTime `json:"startTime"`
	EndTime   UnixTime `json:"endTime"`

	ToAssetCount     int64 `json:"toAssetCount,string"`
	ToRuneCount      int64 `json:"toRuneCount,string"`
	ToTradeCount     int64 `json:"toTradeCount,string"`
	FromTradeCount   int64 `json:"fromTradeCount,string"`
	SynthMintCount   int64 `json:"synthMintCount,string"`
	SynthRedeemCount int64 `json:"synthRedeemCount,string"`
	TotalCount       int64 `json:"totalCount,string"`

	ToAssetVolume     int64 `json:"toAssetVolume,string"`
	ToRuneVolume      int64 `json:"toRuneVolume,string"`
	ToTradeVolume     int64 `json:"toTradeVolume,string"`
	FromTradeVolume   int64 `json:"fromTradeVolume,string"`
	SynthMintVolume   int64 `json:"synthMintVolume,string"`
	SynthRedeemVolume int64 `json:"synthRedeemVolume,string"`
	TotalVolume       int64 `json:"totalVolume,string"`

	ToAssetVolumeUSD     int64 `json:"toAssetVolumeUSD,string"`
	ToRuneVolumeUSD      int64 `json:"toRuneVolumeUSD,string"`
	ToTradeVolumeUSD     int64 `json:"toTradeVolumeUSD,string"`
	FromTradeVolumeUSD   int64 `json:"fromTradeVolumeUSD,string"`
	SynthMintVolumeUSD   int64 `json:"synthMintVolumeUSD,string"`
	SynthRedeemVolumeUSD int64 `json:"synthRedeemVolumeUSD,string"`
	TotalVolumeUSD       int64 `json:"totalVolumeUSD,string"`

	ToAssetFees     int64 `json:"toAssetFees,string"`
	ToRuneFees      int64 `json:"toRuneFees,string"`
	ToTradeFees     int64 `json:"toTradeFees,string"`
	FromTradeFees   int64 `json:"fromTradeFees,string"`
	SynthMintFees   int64 `json:"synthMintFees,string"`
	SynthRedeemFees int64 `json:"synthRedeemFees,string"`
	TotalFees       int64 `json:"totalFees,string"`

	ToAssetAverageSlip     decimal.Decimal `json:"toAssetAverageSlip"`
	ToRuneAverageSlip      decimal.Decimal `json:"toRuneAverageSlip"`
	ToTradeAverageSlip     decimal.Decimal `json:"toTradeAverageSlip"`
	FromTradeAverageSlip   decimal.Decimal `json:"fromTradeAverageSlip"`
	SynthMintAverageSlip   decimal.Decimal `json:"synthMintAverageSlip"`
	SynthRedeemAverageSlip decimal.Decimal `json:"synthRedeemAverageSlip"`
	AverageSlip            decimal.Decimal `json:"averageSlip"`

	RunePriceUSD decimal.Decimal `json:"runePriceUSD"`
}
