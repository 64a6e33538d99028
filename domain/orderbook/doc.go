// Package orderbook implements an in-memory limit order book with
// strict price-time priority matching. It maintains two red-black
// trees for the bid and ask sides, supports limit and market order
// submission with partial fills, and cancellation of resting orders.
//
// The book is single-writer by contract: one logical caller owns an
// OrderBook instance at a time and every operation runs to completion
// before returning. Serializing concurrent callers is the job of the
// surrounding service layer, not of this package.
package orderbook
