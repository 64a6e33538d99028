package pb

import (
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestPlaceOrderResponseRoundTrip(t *testing.T) {
	in := &PlaceOrderResponse{
		Fills: []*Fill{
			{OrderId: 3, Price: "10.00", Quantity: "75", Full: true},
			{OrderId: 4, Price: "10.00", Quantity: "1"},
		},
		FilledQuantity:  "76",
		RestingId:       7,
		RestingQuantity: "24",
	}

	out := new(PlaceOrderResponse)
	if err := out.UnmarshalWire(in.MarshalWire()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestTradeEventRoundTrip(t *testing.T) {
	in := &TradeEvent{
		TradeId:      42,
		TakerSide:    Side_ASK,
		MakerOrderId: 9,
		Price:        "100.25",
		Quantity:     "3.5",
		UnixNanos:    1712345678901234567,
	}
	out := new(TradeEvent)
	if err := out.UnmarshalWire(in.MarshalWire()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	b := (&CancelOrderRequest{OrderId: 5}).MarshalWire()
	// a future field this decoder knows nothing about
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "ignore me")

	out := new(CancelOrderRequest)
	if err := out.UnmarshalWire(b); err != nil {
		t.Fatal(err)
	}
	if out.OrderId != 5 {
		t.Errorf("OrderId = %d, want 5", out.OrderId)
	}
}

func TestCodecRejectsForeignTypes(t *testing.T) {
	var c Codec
	if _, err := c.Marshal(struct{}{}); err == nil {
		t.Error("expected error marshalling a non-Message")
	}
	if err := c.Unmarshal(nil, struct{}{}); err == nil {
		t.Error("expected error unmarshalling into a non-Message")
	}
}
