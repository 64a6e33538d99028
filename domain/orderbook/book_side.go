package orderbook

import "github.com/shopspring/decimal"

// BookSide holds the resting liquidity for one side: price levels in
// a tree ordered by price, plus an id index for O(log n) cancellation.
type BookSide struct {
	side  Side
	tree  *RBTree
	index map[uint64]*Order

	volume    decimal.Decimal // total remaining qty across all levels
	numOrders int
}

func newBookSide(side Side) *BookSide {
	return &BookSide{
		side:  side,
		tree:  NewRBTree(),
		index: make(map[uint64]*Order),
	}
}

// Best returns the best price level: highest for bids, lowest for
// asks. Nil when the side is empty.
func (s *BookSide) Best() *PriceLevel {
	if s.side == Bid {
		return s.tree.MaxLevel()
	}
	return s.tree.MinLevel()
}

// Volume is the total resting remaining quantity on this side.
func (s *BookSide) Volume() decimal.Decimal { return s.volume }

// Len is the number of resting orders on this side.
func (s *BookSide) Len() int { return s.numOrders }

// Depth is the number of distinct price levels on this side.
func (s *BookSide) Depth() int { return s.tree.Size() }

// DepthAt returns the total remaining quantity resting at price.
func (s *BookSide) DepthAt(price decimal.Decimal) decimal.Decimal {
	lvl := s.tree.FindLevel(price)
	if lvl == nil {
		return decimal.Zero
	}
	return lvl.TotalQty
}

// walk visits levels best-first until fn returns false.
func (s *BookSide) walk(fn func(*PriceLevel) bool) {
	if s.side == Bid {
		s.tree.ForEachDescending(fn)
	} else {
		s.tree.ForEachAscending(fn)
	}
}

// insert rests o on this side, creating its price level if needed.
func (s *BookSide) insert(o *Order) {
	lvl := s.tree.UpsertLevel(o.Price)
	lvl.enqueue(o)
	s.index[o.ID] = o
	s.numOrders++
	s.volume = s.volume.Add(o.Remaining())
}

// remove extracts the order with the given id, deleting its level if
// it becomes empty. Returns nil when the id is not resting here.
func (s *BookSide) remove(id uint64) *Order {
	o, ok := s.index[id]
	if !ok {
		return nil
	}
	lvl := s.tree.FindLevel(o.Price)
	s.volume = s.volume.Sub(o.Remaining())
	lvl.unlink(o)
	if lvl.Empty() {
		s.tree.DeleteLevel(lvl.Price)
	}
	delete(s.index, id)
	s.numOrders--
	return o
}

// reduce accounts for qty traded against the head of lvl.
func (s *BookSide) reduce(lvl *PriceLevel, qty decimal.Decimal) {
	lvl.reduce(qty)
	s.volume = s.volume.Sub(qty)
}

// dropFilled unlinks a fully filled head order. Its remaining
// quantity is zero, so level and side totals are already settled by
// reduce; only the links, index and count need updating.
func (s *BookSide) dropFilled(lvl *PriceLevel, o *Order) {
	lvl.unlink(o)
	if lvl.Empty() {
		s.tree.DeleteLevel(lvl.Price)
	}
	delete(s.index, o.ID)
	s.numOrders--
}
