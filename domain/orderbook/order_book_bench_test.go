package orderbook

import (
	"testing"

	"github.com/shopspring/decimal"
)

func BenchmarkSubmitLimitResting(b *testing.B) {
	book := New()
	qty := decimal.NewFromInt(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// spread across levels, never crossing
		if i%2 == 0 {
			book.SubmitLimit(Bid, decimal.NewFromInt(int64(90-i%50)), qty)
		} else {
			book.SubmitLimit(Ask, decimal.NewFromInt(int64(110+i%50)), qty)
		}
	}
}

func BenchmarkSubmitLimitCrossing(b *testing.B) {
	book := New()
	price := decimal.NewFromInt(100)
	qty := decimal.NewFromInt(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			book.SubmitLimit(Bid, price, qty)
		} else {
			book.SubmitLimit(Ask, price, qty)
		}
	}
}

func BenchmarkCancel(b *testing.B) {
	book := New()
	qty := decimal.NewFromInt(1)

	ids := make([]uint64, b.N)
	for i := 0; i < b.N; i++ {
		res, _ := book.SubmitLimit(Bid, decimal.NewFromInt(int64(i%1000+1)), qty)
		ids[i] = res.Partial.ID
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Cancel(ids[i])
	}
}
