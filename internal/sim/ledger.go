package sim

import (
	"sort"

	"hftsim/internal/common"

	"github.com/shopspring/decimal"
)

// Position is a strategy's net fill quantity and cash after a run.
type Position struct {
	Owner    string
	Quantity float64 // Bought minus sold
	Cash     float64 // Received minus paid
	Fills    int
}

// Ledger attributes every fill to the strategy that owned the order.
type Ledger struct {
	owners    map[string]string // order uuid -> owner
	positions map[string]*ledgerEntry
}

type ledgerEntry struct {
	quantity decimal.Decimal
	cash     decimal.Decimal
	fills    int
}

func NewLedger() *Ledger {
	return &Ledger{
		owners:    make(map[string]string),
		positions: make(map[string]*ledgerEntry),
	}
}

// Track remembers who submitted an order so later fills can be attributed.
func (l *Ledger) Track(order common.Order) {
	l.owners[order.UUID] = order.Owner
}

func (l *Ledger) Record(trade common.Trade) {
	qty := decimal.NewFromFloat(trade.Quantity)
	notional := decimal.NewFromFloat(trade.Price).Mul(qty)

	buyer := l.entry(l.owners[trade.BuyOrderUUID])
	buyer.quantity = buyer.quantity.Add(qty)
	buyer.cash = buyer.cash.Sub(notional)
	buyer.fills++

	seller := l.entry(l.owners[trade.SellOrderUUID])
	seller.quantity = seller.quantity.Sub(qty)
	seller.cash = seller.cash.Add(notional)
	seller.fills++
}

func (l *Ledger) entry(owner string) *ledgerEntry {
	e, ok := l.positions[owner]
	if !ok {
		e = &ledgerEntry{}
		l.positions[owner] = e
	}
	return e
}

// Positions lists every owner that traded, sorted by owner.
func (l *Ledger) Positions() []Position {
	positions := make([]Position, 0, len(l.positions))
	for owner, e := range l.positions {
		positions = append(positions, Position{
			Owner:    owner,
			Quantity: e.quantity.InexactFloat64(),
			Cash:     e.cash.InexactFloat64(),
			Fills:    e.fills,
		})
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Owner < positions[j].Owner
	})
	return positions
}
