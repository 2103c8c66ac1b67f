package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	logger      logging.Logger
	conn        *grpc.ClientConn
	client      api.ChatServiceClient

	mu       sync.RWMutex
	token    string
	username string
}

func NewChatClient(endpointURL string, timeout time.Duration, l logging.Logger) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout, logger: l.With("module", "chat_client")}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
		grpc.WithUnaryInterceptor(s.timeoutInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewChatServiceClient(conn)
	return nil
}

// timeoutInterceptor bounds every unary call. The event stream is not
// affected.
func (s *GRPCClient) timeoutInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) session() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNotLoggedIn
	}
	return s.token, nil
}

func (s *GRPCClient) setSession(username, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.token = token
}

func (s *GRPCClient) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *GRPCClient) LoggedIn() bool {
	_, err := s.session()
	return err == nil
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) error {

	resp, err := s.client.Register(ctx, &api.AuthRequest{Username: username, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	if !resp.Success {
		return &ResultError{Code: resp.Code, Message: resp.Message}
	}

	s.setSession(username, resp.SessionToken)
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) error {

	resp, err := s.client.Login(ctx, &api.AuthRequest{Username: username, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	if !resp.Success {
		return &ResultError{Code: resp.Code, Message: resp.Message}
	}

	s.setSession(username, resp.SessionToken)
	return nil
}

// statusCall runs a call answered by a StatusResponse.
func (s *GRPCClient) statusCall(call func(token string) (*api.StatusResponse, error)) error {
	token, err := s.session()
	if err != nil {
		return err
	}

	resp, err := call(token)
	if err != nil {
		return s.mapError(err)
	}
	if !resp.Success {
		return &ResultError{Code: resp.Code, Message: resp.Message}
	}
	return nil
}

// Logout revokes the session on the server and forgets it locally.
func (s *GRPCClient) Logout(ctx context.Context) error {
	err := s.statusCall(func(token string) (*api.StatusResponse, error) {
		return s.client.Logout(ctx, &api.SessionRequest{SessionToken: token})
	})
	if err == nil || errors.Is(err, ErrUnauthorized) {
		s.setSession("", "")
	}
	return err
}

func (s *GRPCClient) Disconnect(ctx context.Context) error {
	return s.statusCall(func(token string) (*api.StatusResponse, error) {
		return s.client.Disconnect(ctx, &api.SessionRequest{SessionToken: token})
	})
}

func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	err := s.statusCall(func(token string) (*api.StatusResponse, error) {
		return s.client.DeleteAccount(ctx, &api.SessionRequest{SessionToken: token})
	})
	if err == nil {
		s.setSession("", "")
	}
	return err
}

func (s *GRPCClient) SendMessage(ctx context.Context, recipient, content string) error {
	return s.statusCall(func(token string) (*api.StatusResponse, error) {
		return s.client.SendMessage(ctx, &api.SendMessageRequest{SessionToken: token, Recipient: recipient, Content: content})
	})
}

func (s *GRPCClient) DeleteMessage(ctx context.Context, id string) error {
	return s.statusCall(func(token string) (*api.StatusResponse, error) {
		return s.client.DeleteMessage(ctx, &api.DeleteMessageRequest{SessionToken: token, MessageID: id})
	})
}

// GetMessages returns the conversation with peer, oldest first, limited to
// the lastN most recent messages when lastN is positive.
func (s *GRPCClient) GetMessages(ctx context.Context, peer string, lastN int) ([]*api.Message, error) {
	token, err := s.session()
	if err != nil {
		return nil, err
	}

	resp, err := s.client.GetMessages(ctx, &api.GetMessagesRequest{
		SessionToken:  token,
		PeerUsername:  peer,
		LastNMessages: int32(lastN),
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Messages, nil
}

// GetUnread returns unread messages addressed to the caller. The server
// marks them read.
func (s *GRPCClient) GetUnread(ctx context.Context, lastN int) ([]*api.Message, error) {
	return s.GetMessages(ctx, "", lastN)
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

// Subscribe opens the event stream and dispatches events to h until ctx is
// done or the server ends the stream. Both return nil.
func (s *GRPCClient) Subscribe(ctx context.Context, h EventHandler) error {
	token, err := s.session()
	if err != nil {
		return err
	}

	stream, err := s.client.Connect(ctx, &api.SessionRequest{SessionToken: token})
	if err != nil {
		return s.mapError(err)
	}

	for {
		ev, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return s.mapError(err)
		}
		s.dispatch(ctx, ev, h)
	}
}

func (s *GRPCClient) dispatch(ctx context.Context, ev *api.ChatEvent, h EventHandler) {
	switch ev.Type {
	case api.EventNewMessage:
		if h.OnMessage != nil && ev.Message != nil {
			h.OnMessage(ev.Message)
		}
	case api.EventMessageDeleted:
		if h.OnMessageDeleted != nil {
			h.OnMessageDeleted(ev.MessageID)
		}
	case api.EventUserOnline:
		if h.OnUserOnline != nil {
			h.OnUserOnline(ev.Username)
		}
	case api.EventUserOffline:
		if h.OnUserOffline != nil {
			h.OnUserOffline(ev.Username)
		}
	default:
		s.logger.Warn(ctx, "unknown event type", "type", ev.Type)
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
