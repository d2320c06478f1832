package engine

import (
	"errors"

	"hftsim/internal/common"

	"github.com/tidwall/btree"
)

var ErrUnknownPriority = errors.New("unknown priority")

// Priority decides which resting order sits at the front of a queue.
type Priority int

const (
	// TimePriority keeps each side in pure arrival order. The front of the
	// queue is the oldest resting order, which is not necessarily the best
	// priced one.
	TimePriority Priority = iota
	// PriceTimePriority keeps each side best price first, then arrival order
	// within a price.
	PriceTimePriority
)

func (p Priority) String() string {
	switch p {
	case TimePriority:
		return "time"
	case PriceTimePriority:
		return "price-time"
	}
	return "unknown"
}

func ParsePriority(s string) (Priority, error) {
	switch s {
	case "time", "":
		return TimePriority, nil
	case "price-time":
		return PriceTimePriority, nil
	}
	return TimePriority, ErrUnknownPriority
}

// restingOrder is an order sat in a queue, tagged with the sequence number it
// was booked with.
type restingOrder struct {
	seq   uint64
	order *common.Order
}

type queue = btree.BTreeG[*restingOrder]

// newQueue builds the resting queue for one side of the book. Min() is always
// the front of the queue.
func newQueue(side common.Side, priority Priority) *queue {
	// The book is only touched from the simulation loop.
	opts := btree.Options{NoLocks: true}

	if priority == TimePriority {
		return btree.NewBTreeGOptions(func(a, b *restingOrder) bool {
			return a.seq < b.seq
		}, opts)
	}

	if side == common.Buy {
		// Sorted greatest first.
		return btree.NewBTreeGOptions(func(a, b *restingOrder) bool {
			if a.order.LimitPrice != b.order.LimitPrice {
				return a.order.LimitPrice > b.order.LimitPrice
			}
			return a.seq < b.seq
		}, opts)
	}
	// Sorted least first.
	return btree.NewBTreeGOptions(func(a, b *restingOrder) bool {
		if a.order.LimitPrice != b.order.LimitPrice {
			return a.order.LimitPrice < b.order.LimitPrice
		}
		return a.seq < b.seq
	}, opts)
}

// snapshot copies the resting orders of a queue, front first.
func snapshot(q *queue) []common.Order {
	orders := make([]common.Order, 0, q.Len())
	q.Scan(func(r *restingOrder) bool {
		orders = append(orders, *r.order)
		return true
	})
	return orders
}
