package strategy

import (
	"hftsim/internal/common"
)

// Strategy is a trading agent driven by the simulation loop. It is called
// once per tick with the trades printed so far and returns the orders it
// wants to submit on this tick.
type Strategy interface {
	Name() string
	GenerateOrders(history common.TradeHistory) []common.Order
}
