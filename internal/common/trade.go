package common

import (
	"fmt"
	"time"
)

// Trade records a single match between an arriving order and a resting one.
type Trade struct {
	BuyOrderUUID  string
	SellOrderUUID string
	Price         float64
	Quantity      float64
	Timestamp     time.Time
	Initiator     Side // Side of the arriving order
}

// Notional is price times quantity.
func (t Trade) Notional() float64 {
	return t.Price * t.Quantity
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`Buy:            %s
Sell:           %s
Timestamp:      %v
Quantity:       %f
Price:          %f
Initiator:      %v`,
		t.BuyOrderUUID,
		t.SellOrderUUID,
		t.Timestamp.Format(time.RFC3339),
		t.Quantity,
		t.Price,
		t.Initiator,
	)
}

// TradeHistory is a read-only view over the trades printed so far, oldest
// first.
type TradeHistory interface {
	Len() int
	Trade(i int) Trade
}

// TradeSlice adapts a plain slice to TradeHistory.
type TradeSlice []Trade

func (s TradeSlice) Len() int          { return len(s) }
func (s TradeSlice) Trade(i int) Trade { return s[i] }
