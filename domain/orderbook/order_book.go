package orderbook

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidOrder rejects non-positive prices and quantities.
	ErrInvalidOrder = errors.New("orderbook: invalid order")
	// ErrOrderNotFound rejects cancellation of an id that is not
	// resting: never seen, already filled, or already cancelled.
	ErrOrderNotFound = errors.New("orderbook: order not found")
)

// Fill records one trade between an incoming order and a resting
// order. Price is always the resting (maker) order's price. Full
// reports whether the resting order was completely consumed.
type Fill struct {
	OrderID  uint64
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Full     bool
}

// OrderResult is the outcome of a submission: the fills realized in
// matching order, the total quantity filled, and, for a limit order
// with unfilled remainder, a detached copy of the resting order.
type OrderResult struct {
	Fills          []Fill
	FilledQuantity decimal.Decimal
	Partial        *Order
}

// OrderBook owns both book sides and all resting orders, and assigns
// order ids and arrival sequence numbers. Counters live on the
// instance; two books never share state.
type OrderBook struct {
	bids *BookSide
	asks *BookSide

	nextID  uint64
	nextSeq uint64
}

func New() *OrderBook {
	return &OrderBook{
		bids: newBookSide(Bid),
		asks: newBookSide(Ask),
	}
}

// SubmitLimit matches a limit order against the opposite side and
// rests any unfilled remainder at price on its own side.
func (b *OrderBook) SubmitLimit(side Side, price, qty decimal.Decimal) (OrderResult, error) {
	if !price.IsPositive() {
		return OrderResult{}, fmt.Errorf("%w: price %s", ErrInvalidOrder, price)
	}
	if !qty.IsPositive() {
		return OrderResult{}, fmt.Errorf("%w: quantity %s", ErrInvalidOrder, qty)
	}

	o := b.newOrder(side, Limit, price, qty)
	res := b.match(o)

	if o.Remaining().IsPositive() {
		b.sideFor(side).insert(o)
		res.Partial = o.detached()
	}
	return res, nil
}

// SubmitMarket matches a market order against the opposite side until
// it is filled or the side is exhausted. Any unfilled remainder is
// discarded: a market order never rests.
func (b *OrderBook) SubmitMarket(side Side, qty decimal.Decimal) (OrderResult, error) {
	if !qty.IsPositive() {
		return OrderResult{}, fmt.Errorf("%w: quantity %s", ErrInvalidOrder, qty)
	}

	o := b.newOrder(side, Market, decimal.Zero, qty)
	return b.match(o), nil
}

// Cancel removes a resting order. Remaining orders at its level keep
// their FIFO order; the level itself is removed if it empties.
func (b *OrderBook) Cancel(id uint64) error {
	if o := b.bids.remove(id); o != nil {
		return nil
	}
	if o := b.asks.remove(id); o != nil {
		return nil
	}
	return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
}

// match consumes the opposite side best-level-first, oldest order
// first within a level. Limit orders stop at the crossing boundary;
// market orders run until filled or the side is exhausted.
func (b *OrderBook) match(o *Order) OrderResult {
	res := OrderResult{FilledQuantity: decimal.Zero}
	opp := b.sideFor(o.Side.Opposite())

	for o.Remaining().IsPositive() {
		best := opp.Best()
		if best == nil {
			break
		}
		if o.Type != Market && !crosses(o.Side, o.Price, best.Price) {
			break
		}

		for head := best.Head(); head != nil && o.Remaining().IsPositive(); head = best.Head() {
			trade := decimal.Min(o.Remaining(), head.Remaining())

			o.Filled = o.Filled.Add(trade)
			head.Filled = head.Filled.Add(trade)
			opp.reduce(best, trade)

			full := head.Remaining().IsZero()
			res.Fills = append(res.Fills, Fill{
				OrderID:  head.ID,
				Price:    best.Price,
				Quantity: trade,
				Full:     full,
			})
			res.FilledQuantity = res.FilledQuantity.Add(trade)

			if full {
				opp.dropFilled(best, head)
			}
		}
	}
	return res
}

// crosses reports whether an incoming limit price can trade against
// the opposite side's best price.
func crosses(side Side, price, best decimal.Decimal) bool {
	if side == Bid {
		return price.Cmp(best) >= 0
	}
	return price.Cmp(best) <= 0
}

func (b *OrderBook) newOrder(side Side, typ OrderType, price, qty decimal.Decimal) *Order {
	b.nextID++
	b.nextSeq++
	return &Order{
		ID:    b.nextID,
		Side:  side,
		Type:  typ,
		Price: price,
		Qty:   qty,
		Seq:   b.nextSeq,
	}
}

func (b *OrderBook) sideFor(s Side) *BookSide {
	if s == Bid {
		return b.bids
	}
	return b.asks
}

// ---- read-only queries ----

// BestBid returns the highest resting bid price.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	lvl := b.bids.Best()
	if lvl == nil {
		return decimal.Zero, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest resting ask price.
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	lvl := b.asks.Best()
	if lvl == nil {
		return decimal.Zero, false
	}
	return lvl.Price, true
}

// DepthAt returns the total remaining quantity resting at price on
// the given side.
func (b *OrderBook) DepthAt(side Side, price decimal.Decimal) decimal.Decimal {
	return b.sideFor(side).DepthAt(price)
}

// SideBook exposes per-side aggregate queries.
func (b *OrderBook) SideBook(s Side) *BookSide {
	return b.sideFor(s)
}

// SnapshotLevel is one aggregated price level of a book snapshot.
type SnapshotLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Orders   int             `json:"orders"`
}

// BookSnapshot is a bounded, aggregated view of both sides,
// best-first.
type BookSnapshot struct {
	Bids []SnapshotLevel `json:"bids"`
	Asks []SnapshotLevel `json:"asks"`
}

// Snapshot aggregates the top maxLevels price levels per side.
// maxLevels <= 0 means all levels.
func (b *OrderBook) Snapshot(maxLevels int) BookSnapshot {
	return BookSnapshot{
		Bids: collectLevels(b.bids, maxLevels),
		Asks: collectLevels(b.asks, maxLevels),
	}
}

func collectLevels(side *BookSide, maxLevels int) []SnapshotLevel {
	if maxLevels <= 0 {
		maxLevels = side.Depth()
	}
	out := make([]SnapshotLevel, 0, maxLevels)
	side.walk(func(lvl *PriceLevel) bool {
		out = append(out, SnapshotLevel{
			Price:    lvl.Price,
			Quantity: lvl.TotalQty,
			Orders:   lvl.OrderCount,
		})
		return maxLevels <= 0 || len(out) < maxLevels
	})
	return out
}
