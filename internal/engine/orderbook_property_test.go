package engine_test

import (
	"testing"

	. "hftsim/internal/common"
	"hftsim/internal/engine"

	"pgregory.net/rapid"
)

type orderSpec struct {
	side     Side
	price    float64
	quantity float64
}

// Whole-number prices and quantities keep the arithmetic exact.
var orderSpecGen = rapid.Custom(func(t *rapid.T) orderSpec {
	return orderSpec{
		side:     rapid.SampledFrom([]Side{Buy, Sell}).Draw(t, "side"),
		price:    float64(rapid.IntRange(95, 105).Draw(t, "price")),
		quantity: float64(rapid.IntRange(0, 5).Draw(t, "quantity")),
	}
})

func TestProperty_RestingOrdersArePositive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := createTestOrderBook()
		for _, o := range rapid.SliceOfN(orderSpecGen, 1, 50).Draw(t, "orders") {
			placeTestOrders(book, o.price, o.side, o.quantity)

			for _, resting := range append(book.Bids(), book.Asks()...) {
				if resting.Quantity <= 0 {
					t.Fatalf("resting order %s has quantity %f", resting.UUID, resting.Quantity)
				}
			}
		}
	})
}

func TestProperty_MakerSetsPrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := createTestOrderBook()
		prices := make(map[string]float64)

		for _, o := range rapid.SliceOfN(orderSpecGen, 1, 50).Draw(t, "orders") {
			order := NewLimitOrder(book.ids, book.clock, "test", o.side, o.price, o.quantity)
			prices[order.UUID] = order.LimitPrice

			for _, trade := range book.InsertOrder(order) {
				if trade.Initiator != o.side {
					t.Fatalf("initiator %v, expected %v", trade.Initiator, o.side)
				}
				maker := trade.SellOrderUUID
				if o.side == Sell {
					maker = trade.BuyOrderUUID
				}
				if trade.Price != prices[maker] {
					t.Fatalf("trade at %f, maker rests at %f", trade.Price, prices[maker])
				}
				if o.side == Buy && trade.Price > o.price {
					t.Fatalf("buy at %f paid %f", o.price, trade.Price)
				}
				if o.side == Sell && trade.Price < o.price {
					t.Fatalf("sell at %f received %f", o.price, trade.Price)
				}
			}
		}
	})
}

func TestProperty_QuantityConserved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := createTestOrderBook()
		var submitted, traded float64

		for _, o := range rapid.SliceOfN(orderSpecGen, 1, 50).Draw(t, "orders") {
			submitted += o.quantity
			for _, trade := range placeTestOrders(book, o.price, o.side, o.quantity) {
				traded += trade.Quantity
			}
		}

		var rest float64
		for _, o := range append(book.Bids(), book.Asks()...) {
			rest += o.Quantity
		}
		// Each trade consumes its quantity from both sides.
		if submitted != rest+2*traded {
			t.Fatalf("submitted %f, resting %f, traded %f", submitted, rest, traded)
		}
	})
}

func TestProperty_PriceTimeBookNeverCrossed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		book := createTestOrderBook(engine.WithPriority(engine.PriceTimePriority))

		for _, o := range rapid.SliceOfN(orderSpecGen, 1, 50).Draw(t, "orders") {
			placeTestOrders(book, o.price, o.side, o.quantity)

			bids, asks := book.Bids(), book.Asks()
			if len(bids) > 0 && len(asks) > 0 && bids[0].LimitPrice >= asks[0].LimitPrice {
				t.Fatalf("book is crossed: best bid %f >= best ask %f", bids[0].LimitPrice, asks[0].LimitPrice)
			}
		}
	})
}
