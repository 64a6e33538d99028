package service

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"vidar/api/pb"
	"vidar/domain/orderbook"
	"vidar/infra/outbox"
)

// DepthPublisher receives an aggregated book snapshot after every
// mutating operation. Satisfied by infra/kafka.Producer.
type DepthPublisher interface {
	PublishDepth(ctx context.Context, snap orderbook.BookSnapshot) error
}

type OrderService struct {
	mu   sync.Mutex
	book *orderbook.OrderBook

	outbox *outbox.Outbox // nil disables trade staging
	feed   DepthPublisher // nil disables market data

	depthLevels int
	lastTradeID atomic.Uint64
}

// New wires all dependencies. No globals.
func New(book *orderbook.OrderBook, ob *outbox.Outbox, feed DepthPublisher, depthLevels int) *OrderService {
	return &OrderService{
		book:        book,
		outbox:      ob,
		feed:        feed,
		depthLevels: depthLevels,
	}
}

// ----------------------------------------------------------
// Commands
// ----------------------------------------------------------

// PlaceLimitOrder submits a limit order into the engine.
func (s *OrderService) PlaceLimitOrder(ctx context.Context, side orderbook.Side, price, qty decimal.Decimal) (orderbook.OrderResult, error) {
	s.mu.Lock()
	res, err := s.book.SubmitLimit(side, price, qty)
	var snap orderbook.BookSnapshot
	if err == nil {
		snap = s.book.Snapshot(s.depthLevels)
	}
	s.mu.Unlock()

	if err != nil {
		return orderbook.OrderResult{}, err
	}
	s.stageTrades(side, res.Fills)
	s.publishDepth(ctx, snap)
	return res, nil
}

// PlaceMarketOrder submits a market order into the engine.
func (s *OrderService) PlaceMarketOrder(ctx context.Context, side orderbook.Side, qty decimal.Decimal) (orderbook.OrderResult, error) {
	s.mu.Lock()
	res, err := s.book.SubmitMarket(side, qty)
	var snap orderbook.BookSnapshot
	if err == nil {
		snap = s.book.Snapshot(s.depthLevels)
	}
	s.mu.Unlock()

	if err != nil {
		return orderbook.OrderResult{}, err
	}
	s.stageTrades(side, res.Fills)
	s.publishDepth(ctx, snap)
	return res, nil
}

// CancelOrder removes a resting order.
func (s *OrderService) CancelOrder(ctx context.Context, id uint64) error {
	s.mu.Lock()
	err := s.book.Cancel(id)
	var snap orderbook.BookSnapshot
	if err == nil {
		snap = s.book.Snapshot(s.depthLevels)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.publishDepth(ctx, snap)
	return nil
}

// ----------------------------------------------------------
// Queries
// ----------------------------------------------------------

func (s *OrderService) BestBid() (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.BestBid()
}

func (s *OrderService) BestAsk() (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.BestAsk()
}

// Depth returns the top maxLevels aggregated levels per side.
func (s *OrderService) Depth(maxLevels int) orderbook.BookSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Snapshot(maxLevels)
}

// ----------------------------------------------------------
// Internals
// ----------------------------------------------------------

// stageTrades writes one outbox record per fill. Staging is
// best-effort with respect to the submission: the match has already
// happened and is not rolled back on outbox errors.
func (s *OrderService) stageTrades(takerSide orderbook.Side, fills []orderbook.Fill) {
	if s.outbox == nil {
		return
	}
	now := time.Now().UnixNano()
	for _, f := range fills {
		id := s.lastTradeID.Add(1)
		ev := &pb.TradeEvent{
			TradeId:      id,
			TakerSide:    pbSide(takerSide),
			MakerOrderId: f.OrderID,
			Price:        f.Price.String(),
			Quantity:     f.Quantity.String(),
			UnixNanos:    now,
		}
		if err := s.outbox.Put(id, ev.MarshalWire()); err != nil {
			log.Printf("[service] stage trade %d: %v", id, err)
		}
	}
}

func (s *OrderService) publishDepth(ctx context.Context, snap orderbook.BookSnapshot) {
	if s.feed == nil {
		return
	}
	if err := s.feed.PublishDepth(ctx, snap); err != nil {
		log.Printf("[service] publish depth: %v", err)
	}
}

func pbSide(s orderbook.Side) pb.Side {
	if s == orderbook.Ask {
		return pb.Side_ASK
	}
	return pb.Side_BID
}
