package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	OrderService_PlaceLimitOrder_FullMethodName  = "/vidar.OrderService/PlaceLimitOrder"
	OrderService_PlaceMarketOrder_FullMethodName = "/vidar.OrderService/PlaceMarketOrder"
	OrderService_CancelOrder_FullMethodName      = "/vidar.OrderService/CancelOrder"
	OrderService_GetDepth_FullMethodName         = "/vidar.OrderService/GetDepth"
)

type OrderServiceClient interface {
	PlaceLimitOrder(ctx context.Context, in *PlaceLimitOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error)
	PlaceMarketOrder(ctx context.Context, in *PlaceMarketOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error)
	CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*CancelOrderResponse, error)
	GetDepth(ctx context.Context, in *DepthRequest, opts ...grpc.CallOption) (*DepthResponse, error)
}

type orderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderServiceClient(cc grpc.ClientConnInterface) OrderServiceClient {
	return &orderServiceClient{cc}
}

func (c *orderServiceClient) invoke(ctx context.Context, method string, in, out Message, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *orderServiceClient) PlaceLimitOrder(ctx context.Context, in *PlaceLimitOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	out := new(PlaceOrderResponse)
	if err := c.invoke(ctx, OrderService_PlaceLimitOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) PlaceMarketOrder(ctx context.Context, in *PlaceMarketOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	out := new(PlaceOrderResponse)
	if err := c.invoke(ctx, OrderService_PlaceMarketOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*CancelOrderResponse, error) {
	out := new(CancelOrderResponse)
	if err := c.invoke(ctx, OrderService_CancelOrder_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *orderServiceClient) GetDepth(ctx context.Context, in *DepthRequest, opts ...grpc.CallOption) (*DepthResponse, error) {
	out := new(DepthResponse)
	if err := c.invoke(ctx, OrderService_GetDepth_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

type OrderServiceServer interface {
	PlaceLimitOrder(context.Context, *PlaceLimitOrderRequest) (*PlaceOrderResponse, error)
	PlaceMarketOrder(context.Context, *PlaceMarketOrderRequest) (*PlaceOrderResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error)
	GetDepth(context.Context, *DepthRequest) (*DepthResponse, error)
}

// UnimplementedOrderServiceServer may be embedded for forward
// compatibility.
type UnimplementedOrderServiceServer struct{}

func (UnimplementedOrderServiceServer) PlaceLimitOrder(context.Context, *PlaceLimitOrderRequest) (*PlaceOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PlaceLimitOrder not implemented")
}

func (UnimplementedOrderServiceServer) PlaceMarketOrder(context.Context, *PlaceMarketOrderRequest) (*PlaceOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PlaceMarketOrder not implemented")
}

func (UnimplementedOrderServiceServer) CancelOrder(context.Context, *CancelOrderRequest) (*CancelOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelOrder not implemented")
}

func (UnimplementedOrderServiceServer) GetDepth(context.Context, *DepthRequest) (*DepthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDepth not implemented")
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderService_ServiceDesc, srv)
}

func _OrderService_PlaceLimitOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PlaceLimitOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).PlaceLimitOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OrderService_PlaceLimitOrder_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).PlaceLimitOrder(ctx, req.(*PlaceLimitOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _OrderService_PlaceMarketOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PlaceMarketOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).PlaceMarketOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OrderService_PlaceMarketOrder_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).PlaceMarketOrder(ctx, req.(*PlaceMarketOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _OrderService_CancelOrder_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CancelOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).CancelOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OrderService_CancelOrder_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).CancelOrder(ctx, req.(*CancelOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _OrderService_GetDepth_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DepthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).GetDepth(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: OrderService_GetDepth_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).GetDepth(ctx, req.(*DepthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var OrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "vidar.OrderService",
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PlaceLimitOrder", Handler: _OrderService_PlaceLimitOrder_Handler},
		{MethodName: "PlaceMarketOrder", Handler: _OrderService_PlaceMarketOrder_Handler},
		{MethodName: "CancelOrder", Handler: _OrderService_CancelOrder_Handler},
		{MethodName: "GetDepth", Handler: _OrderService_GetDepth_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/proto/orderbook.proto",
}
