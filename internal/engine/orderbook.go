package engine

import (
	"hftsim/internal/common"
)

type OrderBook struct {
	clock    common.Clock
	priority Priority

	// Resting orders per side. Orders are only ever matched from the front
	// and only ever booked at the back.
	bids *queue
	asks *queue

	// Arrival counter used to order the queues.
	seq uint64
}

type Option func(*OrderBook)

// WithClock sets the clock used to timestamp trades.
func WithClock(clock common.Clock) Option {
	return func(book *OrderBook) {
		book.clock = clock
	}
}

// WithPriority sets how each side orders its resting orders.
func WithPriority(priority Priority) Option {
	return func(book *OrderBook) {
		book.priority = priority
	}
}

func NewOrderBook(opts ...Option) *OrderBook {
	book := &OrderBook{
		clock:    common.RealClock{},
		priority: TimePriority,
	}
	for _, opt := range opts {
		opt(book)
	}
	book.bids = newQueue(common.Buy, book.priority)
	book.asks = newQueue(common.Sell, book.priority)
	return book
}

// InsertOrder matches an incoming order against the front of the opposite
// queue for as long as the two cross, then books whatever is left on the
// order's own side. Trades are returned in the order they were matched.
//
// Every trade executes at the resting order's price. Orders with no quantity
// left are never booked, so a zero quantity order is a no-op. Market orders
// cross at any price and their unfilled remainder is dropped.
func (book *OrderBook) InsertOrder(order common.Order) []common.Trade {
	resting, own := book.asks, book.bids
	if order.Side == common.Sell {
		resting, own = book.bids, book.asks
	}

	var trades []common.Trade
	for order.Quantity > 0 {
		front, ok := resting.MinMut()
		if !ok || !crosses(&order, front.order) {
			break
		}

		matchQty := min(order.Quantity, front.order.Quantity)
		order.Quantity -= matchQty
		front.order.Quantity -= matchQty
		trades = append(trades, book.trade(&order, front.order, matchQty))

		if front.order.Quantity <= 0 {
			resting.Delete(front)
		}
	}

	if order.Quantity > 0 && order.OrderType == common.LimitOrder {
		book.seq++
		own.Set(&restingOrder{seq: book.seq, order: &order})
	}
	return trades
}

// crosses reports whether the incoming taker can trade with the resting maker.
func crosses(taker, maker *common.Order) bool {
	if taker.OrderType == common.MarketOrder {
		return true
	}
	if taker.Side == common.Buy {
		return taker.LimitPrice >= maker.LimitPrice
	}
	return taker.LimitPrice <= maker.LimitPrice
}

// trade prints a match at the maker's price, initiated by the taker.
func (book *OrderBook) trade(taker, maker *common.Order, quantity float64) common.Trade {
	t := common.Trade{
		Price:     maker.LimitPrice,
		Quantity:  quantity,
		Timestamp: book.clock.Now(),
		Initiator: taker.Side,
	}
	if taker.Side == common.Buy {
		t.BuyOrderUUID, t.SellOrderUUID = taker.UUID, maker.UUID
	} else {
		t.BuyOrderUUID, t.SellOrderUUID = maker.UUID, taker.UUID
	}
	return t
}

// Bids returns a copy of the resting buy orders, front of the queue first.
func (book *OrderBook) Bids() []common.Order {
	return snapshot(book.bids)
}

// Asks returns a copy of the resting sell orders, front of the queue first.
func (book *OrderBook) Asks() []common.Order {
	return snapshot(book.asks)
}

// Resting is the number of orders resting on a side.
func (book *OrderBook) Resting(side common.Side) int {
	if side == common.Buy {
		return book.bids.Len()
	}
	return book.asks.Len()
}

func (book *OrderBook) Priority() Priority {
	return book.priority
}
