package common

import (
	"fmt"
	"time"
)

type Order struct {
	UUID          string    // Order tracked uuid
	OrderType     OrderType //
	Side          Side      // Order side
	LimitPrice    float64   // Limiting price, ignored for market orders
	Quantity      float64   // Remaining quantity
	TotalQuantity float64   // Total volume requested
	Timestamp     time.Time // Time the order was created
	Owner         string    // Strategy that created this order
}

// NewLimitOrder creates a limit order stamped with a fresh id and the current
// time of the given clock.
func NewLimitOrder(ids IDSource, clock Clock, owner string, side Side, price, quantity float64) Order {
	return NewLimitOrderAt(ids, clock.Now(), owner, side, price, quantity)
}

// NewLimitOrderAt is NewLimitOrder with the timestamp supplied by the caller,
// for orders that must share one.
func NewLimitOrderAt(ids IDSource, now time.Time, owner string, side Side, price, quantity float64) Order {
	return Order{
		UUID:          ids.NewID(),
		OrderType:     LimitOrder,
		Side:          side,
		LimitPrice:    price,
		Quantity:      quantity,
		TotalQuantity: quantity,
		Timestamp:     now,
		Owner:         owner,
	}
}

// Filled is the quantity already consumed by matching.
func (order Order) Filled() float64 {
	return order.TotalQuantity - order.Quantity
}

func (order Order) String() string {
	return fmt.Sprintf(
		`UUID:          %v
OrderType:     %v
Side:          %v
LimitPrice:    %f
Quantity:      %f (Total: %f)
Timestamp:     %v
Owner:         %s`,
		order.UUID,
		order.OrderType,
		order.Side,
		order.LimitPrice,
		order.Quantity,
		order.TotalQuantity,
		order.Timestamp.Format(time.RFC3339), // Formatted for readability
		order.Owner,
	)
}
