package sim

import (
	"time"

	"hftsim/internal/common"
	"hftsim/internal/config"
	"hftsim/internal/engine"
	"hftsim/internal/strategy"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DeterministicEpoch is where the stepping clock starts in deterministic runs.
var DeterministicEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type Result struct {
	Trades    []common.Trade
	Stats     Stats
	Positions []Position
}

// Simulator drives the order book for a fixed number of ticks.
type Simulator struct {
	ticks      int
	book       *engine.OrderBook
	strategies []strategy.Strategy
	tape       *Tape
	ledger     *Ledger
}

// New builds a simulator. Strategies are asked for orders, and their orders
// are submitted, in the order given here.
func New(ticks int, book *engine.OrderBook, strategies ...strategy.Strategy) *Simulator {
	return &Simulator{
		ticks:      ticks,
		book:       book,
		strategies: strategies,
		tape:       &Tape{},
		ledger:     NewLedger(),
	}
}

// FromConfig wires the reference market: a market maker followed by a
// momentum trader, sharing one clock and id source with the book.
func FromConfig(cfg config.Config, clock common.Clock, ids common.IDSource) (*Simulator, error) {
	priority, err := engine.ParsePriority(cfg.Priority)
	if err != nil {
		return nil, err
	}

	book := engine.NewOrderBook(engine.WithClock(clock), engine.WithPriority(priority))
	mm := strategy.NewMarketMaker(cfg.MarketMaker.Mid, cfg.MarketMaker.Spread, cfg.MarketMaker.Quantity, ids, clock)
	momentum := strategy.NewMomentumTrader(cfg.Momentum.Window, cfg.Momentum.TickOffset, cfg.Momentum.Quantity, ids, clock)

	return New(cfg.Ticks, book, mm, momentum), nil
}

// Sources returns the clock and id source a run should use.
func Sources(deterministic bool) (common.Clock, common.IDSource) {
	if deterministic {
		return common.NewSteppingClock(DeterministicEpoch, time.Millisecond), common.NewSequentialIDs(uuid.NameSpaceOID)
	}
	return common.RealClock{}, common.RandomIDs{}
}

// Run executes every tick and returns the finished tape with its summary.
func (s *Simulator) Run() Result {
	for tick := 0; tick < s.ticks; tick++ {
		s.Step(tick)
	}

	result := Result{
		Trades:    s.tape.Trades(),
		Positions: s.ledger.Positions(),
	}
	result.Stats = ComputeStats(result.Trades)

	log.Info().
		Int("ticks", s.ticks).
		Int("trades", result.Stats.Trades).
		Float64("volume", result.Stats.Volume).
		Float64("vwap", result.Stats.VWAP).
		Msg("simulation finished")
	return result
}

// Step runs a single tick. Every strategy sees the tape as it stood at the
// start of the tick, so orders generated this tick cannot react to each
// other. Orders are then submitted strategy by strategy.
func (s *Simulator) Step(tick int) {
	var orders []common.Order
	for _, strat := range s.strategies {
		orders = append(orders, strat.GenerateOrders(s.tape)...)
	}

	before := s.tape.Len()
	for _, order := range orders {
		s.ledger.Track(order)
		trades := s.book.InsertOrder(order)
		for _, trade := range trades {
			s.ledger.Record(trade)
		}
		s.tape.append(trades...)
	}

	log.Debug().
		Int("tick", tick).
		Int("orders", len(orders)).
		Int("trades", s.tape.Len()-before).
		Int("resting_bids", s.book.Resting(common.Buy)).
		Int("resting_asks", s.book.Resting(common.Sell)).
		Msg("tick")
}

// History exposes the tape read-only.
func (s *Simulator) History() common.TradeHistory {
	return s.tape
}
