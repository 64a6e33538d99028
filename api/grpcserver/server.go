// Package grpcserver adapts the order entry API onto OrderService.
package grpcserver

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"vidar/api/pb"
	"vidar/domain/orderbook"
	"vidar/service"
)

type Server struct {
	pb.UnimplementedOrderServiceServer
	svc *service.OrderService
}

func NewServer(svc *service.OrderService) *Server {
	return &Server{svc: svc}
}

func (s *Server) PlaceLimitOrder(ctx context.Context, req *pb.PlaceLimitOrderRequest) (*pb.PlaceOrderResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad price %q", req.Price)
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad quantity %q", req.Quantity)
	}

	res, err := s.svc.PlaceLimitOrder(ctx, toSide(req.Side), price, qty)
	if err != nil {
		return nil, toStatus(err)
	}
	log.Printf("[grpc] limit order: side=%v price=%s qty=%s fills=%d", req.Side, price, qty, len(res.Fills))
	return toResponse(res), nil
}

func (s *Server) PlaceMarketOrder(ctx context.Context, req *pb.PlaceMarketOrderRequest) (*pb.PlaceOrderResponse, error) {
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "bad quantity %q", req.Quantity)
	}

	res, err := s.svc.PlaceMarketOrder(ctx, toSide(req.Side), qty)
	if err != nil {
		return nil, toStatus(err)
	}
	log.Printf("[grpc] market order: side=%v qty=%s fills=%d", req.Side, qty, len(res.Fills))
	return toResponse(res), nil
}

func (s *Server) CancelOrder(ctx context.Context, req *pb.CancelOrderRequest) (*pb.CancelOrderResponse, error) {
	if err := s.svc.CancelOrder(ctx, req.OrderId); err != nil {
		return nil, toStatus(err)
	}
	log.Printf("[grpc] cancelled order %d", req.OrderId)
	return &pb.CancelOrderResponse{}, nil
}

func (s *Server) GetDepth(ctx context.Context, req *pb.DepthRequest) (*pb.DepthResponse, error) {
	snap := s.svc.Depth(int(req.Levels))
	return &pb.DepthResponse{
		Bids: toLevels(snap.Bids),
		Asks: toLevels(snap.Asks),
	}, nil
}

// --- converters ---

func toSide(s pb.Side) orderbook.Side {
	if s == pb.Side_ASK {
		return orderbook.Ask
	}
	return orderbook.Bid
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, orderbook.ErrInvalidOrder):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, orderbook.ErrOrderNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toResponse(res orderbook.OrderResult) *pb.PlaceOrderResponse {
	out := &pb.PlaceOrderResponse{
		FilledQuantity: res.FilledQuantity.String(),
	}
	for _, f := range res.Fills {
		out.Fills = append(out.Fills, &pb.Fill{
			OrderId:  f.OrderID,
			Price:    f.Price.String(),
			Quantity: f.Quantity.String(),
			Full:     f.Full,
		})
	}
	if res.Partial != nil {
		out.RestingId = res.Partial.ID
		out.RestingQuantity = res.Partial.Remaining().String()
	}
	return out
}

func toLevels(levels []orderbook.SnapshotLevel) []*pb.Level {
	out := make([]*pb.Level, 0, len(levels))
	for _, l := range levels {
		out = append(out, &pb.Level{
			Price:    l.Price.String(),
			Quantity: l.Quantity.String(),
			Orders:   uint32(l.Orders),
		})
	}
	return out
}
