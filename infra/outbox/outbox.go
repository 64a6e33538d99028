// Package outbox stages realized trades in a durable pebble store so
// the broadcaster can publish them at least once. Records walk a
// NEW -> SENT -> ACKED state machine; ACKED records are deleted.
//
// The outbox holds trade events only. Resting orders are never
// persisted: the book is in-memory by design.
package outbox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

type State uint8

const (
	StateNew State = iota
	StateSent
	StateAcked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Record is one staged trade event plus its delivery bookkeeping.
type Record struct {
	State       State
	Retries     uint32
	LastAttempt int64
	Payload     []byte // wire-encoded pb.TradeEvent
}

// binary layout: [state:1][retries:4][lastAttempt:8][payload...]
func encodeRecord(r Record) []byte {
	buf := make([]byte, 13+len(r.Payload))
	buf[0] = byte(r.State)
	binary.BigEndian.PutUint32(buf[1:5], r.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(r.LastAttempt))
	copy(buf[13:], r.Payload)
	return buf
}

func decodeRecord(b []byte) (Record, error) {
	if len(b) < 13 {
		return Record{}, errors.New("outbox: record too short")
	}
	return Record{
		State:       State(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
		Payload:     append([]byte(nil), b[13:]...),
	}, nil
}

type Outbox struct {
	db *pebble.DB
}

func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Outbox{db: db}, nil
}

func (o *Outbox) Close() error {
	return o.db.Close()
}

// Put stages a new trade for delivery.
func (o *Outbox) Put(tradeID uint64, payload []byte) error {
	rec := Record{State: StateNew, Payload: payload}
	return o.db.Set(keyFor(tradeID), encodeRecord(rec), pebble.Sync)
}

// MarkSent flags a record as handed to the producer.
func (o *Outbox) MarkSent(tradeID uint64) error {
	return o.update(tradeID, func(r *Record) {
		r.State = StateSent
		r.LastAttempt = time.Now().UnixNano()
	})
}

// MarkAcked removes a delivered record.
func (o *Outbox) MarkAcked(tradeID uint64) error {
	return o.db.Delete(keyFor(tradeID), pebble.Sync)
}

// MarkFailed returns a record to the retry pool.
func (o *Outbox) MarkFailed(tradeID uint64) error {
	return o.update(tradeID, func(r *Record) {
		r.State = StateFailed
		r.Retries++
		r.LastAttempt = time.Now().UnixNano()
	})
}

// Get returns the current record for a trade.
func (o *Outbox) Get(tradeID uint64) (Record, error) {
	val, closer, err := o.db.Get(keyFor(tradeID))
	if err != nil {
		return Record{}, err
	}
	defer closer.Close()
	return decodeRecord(val)
}

// ScanByState visits every record in the given state, in trade-id
// order.
func (o *Outbox) ScanByState(state State, fn func(tradeID uint64, rec Record) error) error {
	iter, err := o.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix + "~"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		rec, err := decodeRecord(iter.Value())
		if err != nil {
			return err
		}
		if rec.State != state {
			continue
		}
		id, err := parseKey(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(id, rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (o *Outbox) update(tradeID uint64, mutate func(*Record)) error {
	rec, err := o.Get(tradeID)
	if err != nil {
		return err
	}
	mutate(&rec)
	return o.db.Set(keyFor(tradeID), encodeRecord(rec), pebble.Sync)
}

const keyPrefix = "trade/"

func keyFor(tradeID uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefix, tradeID))
}

func parseKey(b []byte) (uint64, error) {
	var id uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(b, []byte(keyPrefix))), "%d", &id)
	return id, err
}
