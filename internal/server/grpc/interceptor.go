package grpc

import (
	"context"
	"path"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// resultCoder is implemented by responses that report failures in-band.
type resultCoder interface {
	ResultCode() string
}

// outcome labels a finished call: the in-band result code when the call
// itself succeeded, the gRPC status code otherwise.
func outcome(resp any, err error) string {
	if err != nil {
		return status.Code(err).String()
	}
	if rc, ok := resp.(resultCoder); ok && rc.ResultCode() != "" {
		return rc.ResultCode()
	}
	return codes.OK.String()
}

func (s *GRPCServer) observeUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	method := path.Base(info.FullMethod)
	start := time.Now()

	resp, err := handler(ctx, req)

	code := outcome(resp, err)
	s.metrics.Request(method, code)
	s.logger.Debug(ctx, "rpc", "method", method, "code", code, "duration", time.Since(start))
	return resp, err
}

func (s *GRPCServer) observeStream(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	method := path.Base(info.FullMethod)
	start := time.Now()

	err := handler(srv, ss)

	code := outcome(nil, err)
	s.metrics.Request(method, code)
	s.logger.Debug(ss.Context(), "stream closed", "method", method, "code", code, "duration", time.Since(start))
	return err
}

// acquire takes a worker slot, waiting no longer than ctx allows.
func (s *GRPCServer) acquire(ctx context.Context) error {
	if err := s.workers.Acquire(ctx, 1); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}

func (s *GRPCServer) limitUnary(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.workers.Release(1)
	return handler(ctx, req)
}

// limitStream holds a slot for the whole life of the stream.
func (s *GRPCServer) limitStream(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	if err := s.acquire(ss.Context()); err != nil {
		return err
	}
	defer s.workers.Release(1)
	return handler(srv, ss)
}
