package orderbook

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRBTreeInsertFindDelete(t *testing.T) {
	tree := NewRBTree()
	pl1 := tree.UpsertLevel(d("100"))
	if pl1 == nil {
		t.Fatal("UpsertLevel failed")
	}
	if pl2 := tree.FindLevel(d("100")); pl2 != pl1 {
		t.Error("FindLevel did not return same PriceLevel")
	}

	tree.UpsertLevel(d("200"))
	if !tree.MinLevel().Price.Equal(d("100")) {
		t.Error("expected min=100")
	}
	if !tree.MaxLevel().Price.Equal(d("200")) {
		t.Error("expected max=200")
	}

	if !tree.DeleteLevel(d("100")) {
		t.Error("DeleteLevel failed")
	}
	if tree.FindLevel(d("100")) != nil {
		t.Error("expected level 100 to be gone")
	}
}

func TestDeleteNonExistentLevel(t *testing.T) {
	tree := NewRBTree()
	if tree.DeleteLevel(d("123")) {
		t.Error("expected false when deleting non-existent level")
	}
}

func TestEmptyTreeMinMax(t *testing.T) {
	tree := NewRBTree()
	if tree.MinLevel() != nil || tree.MaxLevel() != nil {
		t.Error("expected nil for min/max on empty tree")
	}
}

func TestUpsertDuplicateLevel(t *testing.T) {
	tree := NewRBTree()
	pl1 := tree.UpsertLevel(d("150"))
	pl2 := tree.UpsertLevel(d("150"))
	if pl1 != pl2 {
		t.Error("Upsert should return the same level for a duplicate price")
	}
	if tree.Size() != 1 {
		t.Errorf("size = %d, want 1", tree.Size())
	}
}

func TestEqualValueDifferentScaleKeys(t *testing.T) {
	tree := NewRBTree()
	pl1 := tree.UpsertLevel(d("10.0"))
	pl2 := tree.UpsertLevel(d("10.00"))
	if pl1 != pl2 {
		t.Error("10.0 and 10.00 must map to the same level")
	}
}

func TestOrderedIterationUnderChurn(t *testing.T) {
	tree := NewRBTree()

	// deterministic shuffle of 1..97 via a coprime stride
	const n = 97
	for i := 0; i < n; i++ {
		price := decimal.NewFromInt(int64((i*31)%n + 1))
		tree.UpsertLevel(price)
	}
	if tree.Size() != n {
		t.Fatalf("size = %d, want %d", tree.Size(), n)
	}

	// delete every third key
	deleted := map[int64]bool{}
	for k := int64(3); k <= n; k += 3 {
		if !tree.DeleteLevel(decimal.NewFromInt(k)) {
			t.Fatalf("delete %d failed", k)
		}
		deleted[k] = true
	}

	prev := decimal.Zero
	count := 0
	tree.ForEachAscending(func(lvl *PriceLevel) bool {
		if lvl.Price.Cmp(prev) <= 0 {
			t.Fatalf("iteration out of order: %s after %s", lvl.Price, prev)
		}
		if deleted[lvl.Price.IntPart()] {
			t.Fatalf("deleted key %s still present", lvl.Price)
		}
		prev = lvl.Price
		count++
		return true
	})
	if count != tree.Size() {
		t.Errorf("visited %d levels, size says %d", count, tree.Size())
	}

	// descending walk sees the same set in reverse
	prev = decimal.NewFromInt(n + 1)
	tree.ForEachDescending(func(lvl *PriceLevel) bool {
		if lvl.Price.Cmp(prev) >= 0 {
			t.Fatalf("descending iteration out of order: %s after %s", lvl.Price, prev)
		}
		prev = lvl.Price
		return true
	})
}

func TestIterationEarlyStop(t *testing.T) {
	tree := NewRBTree()
	for i := 1; i <= 10; i++ {
		tree.UpsertLevel(decimal.NewFromInt(int64(i)))
	}
	visited := 0
	tree.ForEachAscending(func(*PriceLevel) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("visited %d, want 3", visited)
	}
}
