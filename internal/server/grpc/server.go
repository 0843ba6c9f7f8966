package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/auctionhouse/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer exposes the auction engine as auction.v1.AuctionService.
type GRPCServer struct {
	address   string
	users     UserService
	items     ItemService
	auctions  AuctionService
	bids      BidService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, is ItemService, as AuctionService, bs BidService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		items:     is,
		auctions:  as,
		bids:      bs,
		jwtSecret: []byte(secretKey),
	}
}

// newServer builds the grpc.Server with every service registered.
func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	srv.RegisterService(&ServiceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
