package sim

import (
	"hftsim/internal/common"

	"github.com/shopspring/decimal"
)

type Stats struct {
	Trades int
	Volume float64
	VWAP   float64 // Zero when nothing traded
}

// ComputeStats summarises a trade tape. Sums are accumulated in decimal so the
// result does not depend on float rounding order.
func ComputeStats(trades []common.Trade) Stats {
	volume := decimal.Zero
	notional := decimal.Zero
	for _, t := range trades {
		qty := decimal.NewFromFloat(t.Quantity)
		volume = volume.Add(qty)
		notional = notional.Add(decimal.NewFromFloat(t.Price).Mul(qty))
	}

	stats := Stats{
		Trades: len(trades),
		Volume: volume.InexactFloat64(),
	}
	if volume.IsPositive() {
		stats.VWAP = notional.Div(volume).InexactFloat64()
	}
	return stats
}
