package outbox

import (
	"bytes"
	"testing"
)

func open(t *testing.T) *Outbox {
	t.Helper()
	o, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { o.Close() })
	return o
}

func TestPutGetLifecycle(t *testing.T) {
	o := open(t)
	payload := []byte("trade-payload")

	if err := o.Put(1, payload); err != nil {
		t.Fatal(err)
	}
	rec, err := o.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if rec.State != StateNew || !bytes.Equal(rec.Payload, payload) {
		t.Errorf("got %v/%q, want NEW with original payload", rec.State, rec.Payload)
	}

	if err := o.MarkSent(1); err != nil {
		t.Fatal(err)
	}
	rec, _ = o.Get(1)
	if rec.State != StateSent || rec.LastAttempt == 0 {
		t.Errorf("after MarkSent: %+v", rec)
	}
	if !bytes.Equal(rec.Payload, payload) {
		t.Error("state transition lost the payload")
	}

	if err := o.MarkAcked(1); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Get(1); err == nil {
		t.Error("acked record should be deleted")
	}
}

func TestMarkFailedCountsRetries(t *testing.T) {
	o := open(t)
	o.Put(7, []byte("x"))

	o.MarkFailed(7)
	o.MarkFailed(7)

	rec, err := o.Get(7)
	if err != nil {
		t.Fatal(err)
	}
	if rec.State != StateFailed || rec.Retries != 2 {
		t.Errorf("got %+v, want FAILED with 2 retries", rec)
	}
}

func TestScanByStateVisitsInOrder(t *testing.T) {
	o := open(t)
	o.Put(3, []byte("c"))
	o.Put(1, []byte("a"))
	o.Put(2, []byte("b"))
	o.MarkSent(2)

	var ids []uint64
	err := o.ScanByState(StateNew, func(id uint64, rec Record) error {
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("scan visited %v, want [1 3]", ids)
	}
}
