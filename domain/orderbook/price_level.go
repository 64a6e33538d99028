package orderbook

import "github.com/shopspring/decimal"

// PriceLevel is a FIFO queue of orders at a single price.
// A level never exists empty: the book side removes it the moment
// its last order leaves.
type PriceLevel struct {
	Price decimal.Decimal

	head *Order
	tail *Order

	// TotalQty is the sum of remaining quantity across the queue.
	TotalQty   decimal.Decimal
	OrderCount int
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{Price: price}
}

func (p *PriceLevel) enqueue(o *Order) {
	if p.head == nil {
		p.head = o
		p.tail = o
	} else {
		p.tail.next = o
		o.prev = p.tail
		p.tail = o
	}
	p.TotalQty = p.TotalQty.Add(o.Remaining())
	p.OrderCount++
}

// unlink removes o from anywhere in the queue, preserving FIFO order
// of the remaining entries. o must be a member of this level.
func (p *PriceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		p.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		p.tail = o.prev
	}
	o.next = nil
	o.prev = nil

	p.TotalQty = p.TotalQty.Sub(o.Remaining())
	p.OrderCount--
}

// reduce accounts for quantity traded against the head order.
func (p *PriceLevel) reduce(qty decimal.Decimal) {
	p.TotalQty = p.TotalQty.Sub(qty)
}

func (p *PriceLevel) Empty() bool {
	return p.head == nil
}

// Head returns the oldest order at this level.
func (p *PriceLevel) Head() *Order {
	return p.head
}
