package orderbook

import "github.com/shopspring/decimal"

type Side int
type OrderType int

const (
	Bid Side = iota
	Ask
)

const (
	Limit OrderType = iota
	Market
)

func (s Side) String() string {
	if s == Ask {
		return "ask"
	}
	return "bid"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// Order is a pure domain entity. The book owns every live Order
// exclusively; callers only ever see detached copies.
type Order struct {
	ID     uint64
	Side   Side
	Type   OrderType
	Price  decimal.Decimal // zero for market orders
	Qty    decimal.Decimal
	Filled decimal.Decimal

	// Seq is the arrival sequence number. Lower Seq trades first
	// within a price level.
	Seq uint64

	next *Order
	prev *Order
}

func (o *Order) Remaining() decimal.Decimal {
	return o.Qty.Sub(o.Filled)
}

// Next supports read-only traversal of a price level queue.
func (o *Order) Next() *Order {
	return o.next
}

// detached returns a copy safe to hand outside the book.
func (o *Order) detached() *Order {
	c := *o
	c.next = nil
	c.prev = nil
	return &c
}
