package strategy

import (
	"hftsim/internal/common"
)

const MomentumName = "momentum"

// MomentumTrader follows the direction of the last Window trades. It buys
// when the newest price is above the oldest one in the window and sells
// otherwise, pricing TickOffset through the last trade so the order crosses.
type MomentumTrader struct {
	Window     int
	TickOffset float64
	Quantity   float64

	ids   common.IDSource
	clock common.Clock
}

func NewMomentumTrader(window int, tickOffset, quantity float64, ids common.IDSource, clock common.Clock) *MomentumTrader {
	return &MomentumTrader{
		Window:     window,
		TickOffset: tickOffset,
		Quantity:   quantity,
		ids:        ids,
		clock:      clock,
	}
}

func (m *MomentumTrader) Name() string { return MomentumName }

func (m *MomentumTrader) GenerateOrders(history common.TradeHistory) []common.Order {
	n := history.Len()
	if m.Window <= 0 || n < m.Window {
		return nil
	}

	newest := history.Trade(n - 1).Price
	oldest := history.Trade(n - m.Window).Price

	side, price := common.Sell, newest-m.TickOffset
	if newest > oldest {
		side, price = common.Buy, newest+m.TickOffset
	}

	order := common.NewLimitOrder(m.ids, m.clock, MomentumName, side, price, m.Quantity)
	return []common.Order{order}
}
