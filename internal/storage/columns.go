package storage

// Sortable column allow-lists, one per series table. The query builder
// interpolates sortBy as an identifier, so only names listed here are
// accepted from requests.

var DepthPriceSortColumns = []string{
	"start_time", "end_time",
	"asset_depth", "rune_depth", "asset_price", "asset_price_usd",
	"liquidity_units", "members_count", "synth_units", "synth_supply",
	"units", "luvi",
}

var EarningsSortColumns = []string{
	"start_time", "end_time",
	"liquidity_fees", "block_rewards", "earnings", "bonding_earnings",
	"liquidity_earnings", "avg_node_count", "rune_price_usd",
}

var RunePoolSortColumns = []string{
	"start_time", "end_time", "count", "units",
}

var SwapsSortColumns = []string{
	"start_time", "end_time",
	"to_asset_count", "to_rune_count", "to_trade_count", "from_trade_count",
	"synth_mint_count", "synth_redeem_count", "total_count",
	"to_asset_volume", "to_rune_volume", "to_trade_volume", "from_trade_volume",
	"synth_mint_volume", "synth_redeem_volume", "total_volume",
	"to_asset_volume_usd", "to_rune_volume_usd", "to_trade_volume_usd", "from_trade_volume_usd",
	"synth_mint_volume_usd", "synth_redeem_volume_usd", "total_volume_usd",
	"to_asset_fees", "to_rune_fees", "to_trade_fees", "from_trade_fees",
	"synth_mint_fees", "synth_redeem_fees", "total_fees",
	"to_asset_average_slip", "to_rune_average_slip", "to_trade_average_slip", "from_trade_average_slip",
	"synth_mint_average_slip", "synth_redeem_average_slip", "average_slip",
	"rune_price_usd",
}
