package strategy

import (
	"time"

	"hftsim/internal/common"
)

const MarketMakerName = "market-maker"

// MarketMaker quotes both sides around a fixed reference price on every tick,
// whatever has traded.
type MarketMaker struct {
	Mid      float64
	Spread   float64
	Quantity float64

	ids   common.IDSource
	clock common.Clock
}

func NewMarketMaker(mid, spread, quantity float64, ids common.IDSource, clock common.Clock) *MarketMaker {
	return &MarketMaker{
		Mid:      mid,
		Spread:   spread,
		Quantity: quantity,
		ids:      ids,
		clock:    clock,
	}
}

func (m *MarketMaker) Name() string { return MarketMakerName }

// GenerateOrders returns a bid at Mid-Spread followed by an ask at
// Mid+Spread. Both orders carry the same timestamp.
func (m *MarketMaker) GenerateOrders(common.TradeHistory) []common.Order {
	now := m.clock.Now()
	return []common.Order{
		m.quote(common.Buy, m.Mid-m.Spread, now),
		m.quote(common.Sell, m.Mid+m.Spread, now),
	}
}

func (m *MarketMaker) quote(side common.Side, price float64, now time.Time) common.Order {
	return common.NewLimitOrderAt(m.ids, now, MarketMakerName, side, price, m.Quantity)
}
