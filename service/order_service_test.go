package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"vidar/api/pb"
	"vidar/domain/orderbook"
	"vidar/infra/outbox"
)

type recordingFeed struct {
	snaps []orderbook.BookSnapshot
}

func (f *recordingFeed) PublishDepth(_ context.Context, snap orderbook.BookSnapshot) error {
	f.snaps = append(f.snaps, snap)
	return nil
}

func newService(t *testing.T) (*OrderService, *outbox.Outbox, *recordingFeed) {
	t.Helper()
	ob, err := outbox.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ob.Close() })
	feed := &recordingFeed{}
	return New(orderbook.New(), ob, feed, 10), ob, feed
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPlaceOrderStagesTrades(t *testing.T) {
	svc, ob, _ := newService(t)
	ctx := context.Background()

	rest, err := svc.PlaceLimitOrder(ctx, orderbook.Ask, d("10.00"), d("5"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.PlaceMarketOrder(ctx, orderbook.Bid, d("3"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Fills) != 1 {
		t.Fatalf("expected one fill, got %d", len(res.Fills))
	}

	var events []*pb.TradeEvent
	err = ob.ScanByState(outbox.StateNew, func(id uint64, rec outbox.Record) error {
		ev := new(pb.TradeEvent)
		if err := ev.UnmarshalWire(rec.Payload); err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one staged trade, got %d", len(events))
	}
	ev := events[0]
	if ev.MakerOrderId != rest.Partial.ID || ev.TakerSide != pb.Side_BID {
		t.Errorf("staged trade = %+v", ev)
	}
	if !d(ev.Price).Equal(d("10.00")) || !d(ev.Quantity).Equal(d("3")) {
		t.Errorf("staged price/qty = %s/%s, want 10.00/3", ev.Price, ev.Quantity)
	}
}

func TestPublishesDepthAfterEveryMutation(t *testing.T) {
	svc, _, feed := newService(t)
	ctx := context.Background()

	res, _ := svc.PlaceLimitOrder(ctx, orderbook.Bid, d("99"), d("1"))
	svc.PlaceLimitOrder(ctx, orderbook.Ask, d("101"), d("2"))
	if err := svc.CancelOrder(ctx, res.Partial.ID); err != nil {
		t.Fatal(err)
	}

	if len(feed.snaps) != 3 {
		t.Fatalf("published %d snapshots, want 3", len(feed.snaps))
	}
	last := feed.snaps[2]
	if len(last.Bids) != 0 || len(last.Asks) != 1 {
		t.Errorf("final snapshot = %+v", last)
	}
}

func TestRejectedOrdersPublishNothing(t *testing.T) {
	svc, ob, feed := newService(t)
	ctx := context.Background()

	if _, err := svc.PlaceLimitOrder(ctx, orderbook.Bid, d("0"), d("5")); !errors.Is(err, orderbook.ErrInvalidOrder) {
		t.Fatalf("got %v, want ErrInvalidOrder", err)
	}
	if err := svc.CancelOrder(ctx, 99); !errors.Is(err, orderbook.ErrOrderNotFound) {
		t.Fatalf("got %v, want ErrOrderNotFound", err)
	}
	if len(feed.snaps) != 0 {
		t.Error("rejected operations must not publish depth")
	}

	count := 0
	ob.ScanByState(outbox.StateNew, func(uint64, outbox.Record) error {
		count++
		return nil
	})
	if count != 0 {
		t.Error("rejected operations must not stage trades")
	}
}

func TestQueries(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	svc.PlaceLimitOrder(ctx, orderbook.Bid, d("99"), d("1"))
	svc.PlaceLimitOrder(ctx, orderbook.Ask, d("101"), d("2"))

	if bid, ok := svc.BestBid(); !ok || !bid.Equal(d("99")) {
		t.Errorf("best bid = %s", bid)
	}
	if ask, ok := svc.BestAsk(); !ok || !ask.Equal(d("101")) {
		t.Errorf("best ask = %s", ask)
	}
	snap := svc.Depth(0)
	if len(snap.Bids) != 1 || len(snap.Asks) != 1 {
		t.Errorf("depth = %+v", snap)
	}
}
