// Package pb defines the wire messages for the order entry API.
//
// The messages follow api/proto/orderbook.proto but are encoded with
// hand-written protowire codecs instead of protoc output, so the
// build has no codegen step. Layout changes must keep the field
// numbers stable.
package pb

import "google.golang.org/protobuf/encoding/protowire"

// Side mirrors the domain enum on the wire.
type Side int32

const (
	Side_BID Side = 0
	Side_ASK Side = 1
)

type PlaceLimitOrderRequest struct {
	Side     Side
	Price    string
	Quantity string
}

type PlaceMarketOrderRequest struct {
	Side     Side
	Quantity string
}

type Fill struct {
	OrderId  uint64
	Price    string
	Quantity string
	Full     bool
}

type PlaceOrderResponse struct {
	Fills           []*Fill
	FilledQuantity  string
	RestingId       uint64 // 0 when nothing rested
	RestingQuantity string
}

type CancelOrderRequest struct {
	OrderId uint64
}

type CancelOrderResponse struct{}

type DepthRequest struct {
	Levels uint32
}

type Level struct {
	Price    string
	Quantity string
	Orders   uint32
}

type DepthResponse struct {
	Bids []*Level
	Asks []*Level
}

// TradeEvent is the outbox/broadcast payload for one realized fill.
type TradeEvent struct {
	TradeId      uint64
	TakerSide    Side
	MakerOrderId uint64
	Price        string
	Quantity     string
	UnixNanos    int64
}

// ---- wire codecs ----

func (m *PlaceLimitOrderRequest) MarshalWire() []byte {
	var b []byte
	b = appendVarintField(b, 1, uint64(m.Side))
	b = appendStringField(b, 2, m.Price)
	b = appendStringField(b, 3, m.Quantity)
	return b
}

func (m *PlaceLimitOrderRequest) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			u, err := asVarint(v)
			m.Side = Side(u)
			return err
		case 2:
			return asString(v, &m.Price)
		case 3:
			return asString(v, &m.Quantity)
		}
		return nil
	})
}

func (m *PlaceMarketOrderRequest) MarshalWire() []byte {
	var b []byte
	b = appendVarintField(b, 1, uint64(m.Side))
	b = appendStringField(b, 2, m.Quantity)
	return b
}

func (m *PlaceMarketOrderRequest) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			u, err := asVarint(v)
			m.Side = Side(u)
			return err
		case 2:
			return asString(v, &m.Quantity)
		}
		return nil
	})
}

func (m *Fill) MarshalWire() []byte {
	var b []byte
	b = appendVarintField(b, 1, m.OrderId)
	b = appendStringField(b, 2, m.Price)
	b = appendStringField(b, 3, m.Quantity)
	if m.Full {
		b = appendVarintField(b, 4, 1)
	}
	return b
}

func (m *Fill) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			u, err := asVarint(v)
			m.OrderId = u
			return err
		case 2:
			return asString(v, &m.Price)
		case 3:
			return asString(v, &m.Quantity)
		case 4:
			u, err := asVarint(v)
			m.Full = u != 0
			return err
		}
		return nil
	})
}

func (m *PlaceOrderResponse) MarshalWire() []byte {
	var b []byte
	for _, f := range m.Fills {
		b = appendBytesField(b, 1, f.MarshalWire())
	}
	b = appendStringField(b, 2, m.FilledQuantity)
	b = appendVarintField(b, 3, m.RestingId)
	b = appendStringField(b, 4, m.RestingQuantity)
	return b
}

func (m *PlaceOrderResponse) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			f := new(Fill)
			if err := f.UnmarshalWire(v); err != nil {
				return err
			}
			m.Fills = append(m.Fills, f)
		case 2:
			return asString(v, &m.FilledQuantity)
		case 3:
			u, err := asVarint(v)
			m.RestingId = u
			return err
		case 4:
			return asString(v, &m.RestingQuantity)
		}
		return nil
	})
}

func (m *CancelOrderRequest) MarshalWire() []byte {
	var b []byte
	b = appendVarintField(b, 1, m.OrderId)
	return b
}

func (m *CancelOrderRequest) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == 1 {
			u, err := asVarint(v)
			m.OrderId = u
			return err
		}
		return nil
	})
}

func (m *CancelOrderResponse) MarshalWire() []byte { return nil }

func (m *CancelOrderResponse) UnmarshalWire([]byte) error { return nil }

func (m *DepthRequest) MarshalWire() []byte {
	var b []byte
	b = appendVarintField(b, 1, uint64(m.Levels))
	return b
}

func (m *DepthRequest) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == 1 {
			u, err := asVarint(v)
			m.Levels = uint32(u)
			return err
		}
		return nil
	})
}

func (m *Level) MarshalWire() []byte {
	var b []byte
	b = appendStringField(b, 1, m.Price)
	b = appendStringField(b, 2, m.Quantity)
	b = appendVarintField(b, 3, uint64(m.Orders))
	return b
}

func (m *Level) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			return asString(v, &m.Price)
		case 2:
			return asString(v, &m.Quantity)
		case 3:
			u, err := asVarint(v)
			m.Orders = uint32(u)
			return err
		}
		return nil
	})
}

func (m *DepthResponse) MarshalWire() []byte {
	var b []byte
	for _, l := range m.Bids {
		b = appendBytesField(b, 1, l.MarshalWire())
	}
	for _, l := range m.Asks {
		b = appendBytesField(b, 2, l.MarshalWire())
	}
	return b
}

func (m *DepthResponse) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1, 2:
			l := new(Level)
			if err := l.UnmarshalWire(v); err != nil {
				return err
			}
			if num == 1 {
				m.Bids = append(m.Bids, l)
			} else {
				m.Asks = append(m.Asks, l)
			}
		}
		return nil
	})
}

func (m *TradeEvent) MarshalWire() []byte {
	var b []byte
	b = appendVarintField(b, 1, m.TradeId)
	b = appendVarintField(b, 2, uint64(m.TakerSide))
	b = appendVarintField(b, 3, m.MakerOrderId)
	b = appendStringField(b, 4, m.Price)
	b = appendStringField(b, 5, m.Quantity)
	b = appendVarintField(b, 6, uint64(m.UnixNanos))
	return b
}

func (m *TradeEvent) UnmarshalWire(data []byte) error {
	return eachField(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch num {
		case 1:
			u, err := asVarint(v)
			m.TradeId = u
			return err
		case 2:
			u, err := asVarint(v)
			m.TakerSide = Side(u)
			return err
		case 3:
			u, err := asVarint(v)
			m.MakerOrderId = u
			return err
		case 4:
			return asString(v, &m.Price)
		case 5:
			return asString(v, &m.Quantity)
		case 6:
			u, err := asVarint(v)
			m.UnixNanos = int64(u)
			return err
		}
		return nil
	})
}
