package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"github.com/dmitrijs2005/auctionhouse/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// authenticatedMethods act on behalf of a user and need an access token.
var authenticatedMethods = map[string]bool{
	fullMethod("CreateItem"):    true,
	fullMethod("CreateAuction"): true,
	fullMethod("CancelAuction"): true,
	fullMethod("PlaceBid"):      true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if authenticatedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		ctx = context.WithValue(ctx, userIDKey, userID)
	}

	return handler(ctx, req)
}

// loggingInterceptor records one line per call with its outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Warn(ctx, "rpc failed", args...)
	} else {
		s.logger.Debug(ctx, "rpc", args...)
	}
	return resp, err
}

func userIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}
