package sim

import (
	"bytes"
	"testing"

	"hftsim/internal/common"
	"hftsim/internal/config"
	"hftsim/internal/engine"
	"hftsim/internal/output"
	"hftsim/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Setup & Helpers --------------------------------------------------------

func createTestSimulator(t *testing.T, ticks int) *Simulator {
	cfg := config.Default()
	cfg.Ticks = ticks
	clock, ids := Sources(true)

	s, err := FromConfig(cfg, clock, ids)
	require.NoError(t, err)
	return s
}

type expectedTrade struct {
	price     float64
	quantity  float64
	initiator common.Side
}

func flattenTrades(trades []common.Trade) []expectedTrade {
	out := make([]expectedTrade, len(trades))
	for i, tr := range trades {
		out[i] = expectedTrade{tr.Price, tr.Quantity, tr.Initiator}
	}
	return out
}

// recordingStrategy captures how long the tape was each time it was asked.
type recordingStrategy struct {
	seen []int
}

func (r *recordingStrategy) Name() string { return "recorder" }

func (r *recordingStrategy) GenerateOrders(history common.TradeHistory) []common.Order {
	r.seen = append(r.seen, history.Len())
	return nil
}

// --- Tests ------------------------------------------------------------------

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]common.Trade{
		{Price: 10, Quantity: 2},
		{Price: 20, Quantity: 1},
	})

	assert.Equal(t, 2, stats.Trades)
	assert.InDelta(t, 3.0, stats.Volume, 1e-12)
	assert.InDelta(t, 13.333333333333334, stats.VWAP, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Zero(t, stats.Trades)
	assert.Zero(t, stats.Volume)
	assert.Zero(t, stats.VWAP)
}

func TestRun_FirstTicks(t *testing.T) {
	result := createTestSimulator(t, 7).Run()

	// Until the momentum trader has a full window the market maker only
	// trades with itself: its ask crosses its own bid every tick.
	expected := []expectedTrade{
		{100, 1, common.Sell},
		{100, 1, common.Sell},
		{100, 1, common.Sell},
		{100, 1, common.Sell},
		{100, 1, common.Sell},
		{100, 1, common.Sell},
	}
	got := flattenTrades(result.Trades)
	require.Len(t, got, 8)
	assert.Equal(t, expected, got[:6])

	// Tick 7: the bid lifts the momentum ask left on tick 6, then the ask
	// hits the remainder of that bid.
	assert.InDelta(t, 99.99, got[6].price, 1e-9)
	assert.Equal(t, 0.5, got[6].quantity)
	assert.Equal(t, common.Buy, got[6].initiator)
	assert.Equal(t, expectedTrade{100, 0.5, common.Sell}, got[7])

	assert.Equal(t, 8, result.Stats.Trades)
	assert.InDelta(t, 7.0, result.Stats.Volume, 1e-12)
}

func TestRun_Positions(t *testing.T) {
	result := createTestSimulator(t, 7).Run()

	require.Len(t, result.Positions, 2)
	mm, momentum := result.Positions[0], result.Positions[1]

	assert.Equal(t, strategy.MarketMakerName, mm.Owner)
	assert.InDelta(t, 0.5, mm.Quantity, 1e-12)
	assert.InDelta(t, -49.995, mm.Cash, 1e-9)
	assert.Equal(t, 15, mm.Fills)

	assert.Equal(t, strategy.MomentumName, momentum.Owner)
	assert.InDelta(t, -0.5, momentum.Quantity, 1e-12)
	assert.InDelta(t, 49.995, momentum.Cash, 1e-9)
	assert.Equal(t, 1, momentum.Fills)
}

func TestRun_StrategiesSeePriorTicksOnly(t *testing.T) {
	clock, ids := Sources(true)
	book := engine.NewOrderBook(engine.WithClock(clock))
	recorder := &recordingStrategy{}

	s := New(4, book, strategy.NewMarketMaker(100, 0, 1, ids, clock), recorder)
	result := s.Run()

	assert.Equal(t, []int{0, 1, 2, 3}, recorder.seen)
	assert.Len(t, result.Trades, 4)
	assert.Equal(t, 4, s.History().Len())
}

func TestRun_Deterministic(t *testing.T) {
	first := createTestSimulator(t, 100).Run()
	second := createTestSimulator(t, 100).Run()

	var a, b bytes.Buffer
	require.NoError(t, output.WriteCSV(&a, first.Trades))
	require.NoError(t, output.WriteCSV(&b, second.Trades))

	assert.NotEmpty(t, first.Trades)
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, first.Stats, second.Stats)
}

func TestRun_TapeInvariants(t *testing.T) {
	result := createTestSimulator(t, 100).Run()

	for i, tr := range result.Trades {
		assert.Positive(t, tr.Quantity, "trade %d", i)
		assert.NotEqual(t, tr.BuyOrderUUID, tr.SellOrderUUID, "trade %d", i)
		if i > 0 {
			assert.True(t, tr.Timestamp.After(result.Trades[i-1].Timestamp), "trade %d", i)
		}
	}
}

func TestFromConfig_BadPriority(t *testing.T) {
	cfg := config.Default()
	cfg.Priority = "pro-rata"
	clock, ids := Sources(true)

	_, err := FromConfig(cfg, clock, ids)
	assert.ErrorIs(t, err, engine.ErrUnknownPriority)
}
