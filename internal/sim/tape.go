package sim

import (
	"hftsim/internal/common"
)

// Tape is the running record of every trade printed during a run. Strategies
// only ever see it through common.TradeHistory.
type Tape struct {
	trades []common.Trade
}

func (t *Tape) Len() int { return len(t.trades) }

func (t *Tape) Trade(i int) common.Trade { return t.trades[i] }

func (t *Tape) append(trades ...common.Trade) {
	t.trades = append(t.trades, trades...)
}

// Trades returns a copy of the tape.
func (t *Tape) Trades() []common.Trade {
	out := make([]common.Trade, len(t.trades))
	copy(out, t.trades)
	return out
}
