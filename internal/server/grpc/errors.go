package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/auctionhouse/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto a gRPC status. Unknown errors are
// logged and surfaced as a bare Internal so no storage detail leaks.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codeOf(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrorInvalidState):
		return codes.FailedPrecondition
	case errors.Is(err, common.ErrorForbidden):
		return codes.PermissionDenied
	case errors.Is(err, common.ErrorInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrorConflict):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return codes.Unauthenticated
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Internal
	}
}
