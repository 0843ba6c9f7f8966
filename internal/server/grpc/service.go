package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "auction.v1.AuctionService"

// AuctionServiceServer is the server API of auction.v1.AuctionService.
type AuctionServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreateItem(context.Context, *CreateItemRequest) (*Item, error)
	CreateAuction(context.Context, *CreateAuctionRequest) (*Auction, error)
	GetAuction(context.Context, *GetAuctionRequest) (*Auction, error)
	ListAuctions(context.Context, *ListAuctionsRequest) (*ListAuctionsResponse, error)
	CancelAuction(context.Context, *CancelAuctionRequest) (*Auction, error)
	PlaceBid(context.Context, *PlaceBidRequest) (*PlaceBidResponse, error)
	ListBids(context.Context, *ListBidsRequest) (*ListBidsResponse, error)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method descriptor of one unary RPC.
func unary[Req, Resp any](name string, call func(AuctionServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AuctionServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AuctionServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes auction.v1.AuctionService for grpc.Server.RegisterService.
// The contract is api/auction/v1/auction.proto; messages are the structs in
// messages.go, encoded by the JSON codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuctionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", AuctionServiceServer.Register),
		unary("Login", AuctionServiceServer.Login),
		unary("CreateItem", AuctionServiceServer.CreateItem),
		unary("CreateAuction", AuctionServiceServer.CreateAuction),
		unary("GetAuction", AuctionServiceServer.GetAuction),
		unary("ListAuctions", AuctionServiceServer.ListAuctions),
		unary("CancelAuction", AuctionServiceServer.CancelAuction),
		unary("PlaceBid", AuctionServiceServer.PlaceBid),
		unary("ListBids", AuctionServiceServer.ListBids),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/auction/v1/auction.proto",
}

// Client calls auction.v1.AuctionService over the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, name string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c, "Register", in, opts)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "Login", in, opts)
}

func (c *Client) CreateItem(ctx context.Context, in *CreateItemRequest, opts ...grpc.CallOption) (*Item, error) {
	return invoke[Item](ctx, c, "CreateItem", in, opts)
}

func (c *Client) CreateAuction(ctx context.Context, in *CreateAuctionRequest, opts ...grpc.CallOption) (*Auction, error) {
	return invoke[Auction](ctx, c, "CreateAuction", in, opts)
}

func (c *Client) GetAuction(ctx context.Context, in *GetAuctionRequest, opts ...grpc.CallOption) (*Auction, error) {
	return invoke[Auction](ctx, c, "GetAuction", in, opts)
}

func (c *Client) ListAuctions(ctx context.Context, in *ListAuctionsRequest, opts ...grpc.CallOption) (*ListAuctionsResponse, error) {
	return invoke[ListAuctionsResponse](ctx, c, "ListAuctions", in, opts)
}

func (c *Client) CancelAuction(ctx context.Context, in *CancelAuctionRequest, opts ...grpc.CallOption) (*Auction, error) {
	return invoke[Auction](ctx, c, "CancelAuction", in, opts)
}

func (c *Client) PlaceBid(ctx context.Context, in *PlaceBidRequest, opts ...grpc.CallOption) (*PlaceBidResponse, error) {
	return invoke[PlaceBidResponse](ctx, c, "PlaceBid", in, opts)
}

func (c *Client) ListBids(ctx context.Context, in *ListBidsRequest, opts ...grpc.CallOption) (*ListBidsResponse, error) {
	return invoke[ListBidsResponse](ctx, c, "ListBids", in, opts)
}
