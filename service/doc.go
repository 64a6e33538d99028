// Package service orchestrates the engine's core components:
// orderbook, trade outbox, and market data feed.
//
// OrderService is the ONLY write entry point into the system. The
// book itself is single-writer with no internal locking; the service
// serializes callers in front of it and is what network transports
// like gRPC talk to.
package service
