package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"google.golang.org/grpc/metadata"
)

// Connect streams the caller's events until the client goes away, the
// subscription is closed by the server or the server shuts down.
func (s *GRPCServer) Connect(req *api.SessionRequest, stream api.ChatService_ConnectServer) error {
	ctx := stream.Context()

	h, err := s.messaging.Connect(ctx, req.SessionToken)
	if err != nil {
		s.failed(ctx, "Connect", err)
		return toStatus(err)
	}
	// the stream context is already cancelled when the client went away
	defer s.messaging.Release(context.WithoutCancel(ctx), h)

	log := s.logger.With("username", h.Username())

	// tells the client its handle is registered
	if err := stream.SendHeader(metadata.Pairs(api.SubscribedHeader, h.Username())); err != nil {
		log.Warn(ctx, "Header send failed", "error", err)
		return err
	}
	log.Info(ctx, "Client connected")

	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, "Client went away")
			return nil
		case <-s.stopping:
			return nil
		case <-h.Done():
			log.Info(ctx, "Subscription closed")
			return nil
		case ev := <-h.Events():
			if err := stream.Send(toWireEvent(ev)); err != nil {
				log.Warn(ctx, "Event send failed", "kind", string(ev.Kind()), "error", err)
				return err
			}
		}
	}
}
