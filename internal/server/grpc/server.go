package grpc

import (
	"context"
	"net"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/metrics"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
)

// GRPCServer exposes the account and messaging services as
// gophchat.ChatService.
type GRPCServer struct {
	address   string
	accounts  *services.AccountService
	messaging *services.MessagingService
	logger    logging.Logger
	metrics   *metrics.Metrics
	workers   *semaphore.Weighted

	// closed on shutdown so live Connect streams return and GracefulStop
	// does not wait on them forever
	stopping chan struct{}
	stopOnce sync.Once
}

func NewGRPCServer(a string, l logging.Logger, m *metrics.Metrics, as *services.AccountService,
	ms *services.MessagingService, maxWorkers int) (*GRPCServer, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		metrics:   m,
		accounts:  as,
		messaging: ms,
		workers:   semaphore.NewWeighted(int64(maxWorkers)),
		stopping:  make(chan struct{}),
	}, nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.observeUnary, s.limitUnary),
		grpc.ChainStreamInterceptor(s.observeStream, s.limitStream),
	)

	// registers service
	api.RegisterChatServiceServer(srv, s)

	served := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-served:
			return
		}
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.stopOnce.Do(func() { close(s.stopping) })
		srv.GracefulStop()
	}()
	defer close(served)

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
