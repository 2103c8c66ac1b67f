package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ api.ChatServiceServer = (*GRPCServer)(nil)

const internalErrorMessage = "Internal server error"

// failed logs storage failures; every other outcome is the caller's fault
// and only worth a debug line.
func (s *GRPCServer) failed(ctx context.Context, method string, err error) {
	if errors.Is(err, common.ErrorInternal) {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
		return
	}
	s.logger.Debug(ctx, "request rejected", "method", method, "error", err)
}

func (s *GRPCServer) statusResponse(ctx context.Context, method string, err error, okMessage string) *api.StatusResponse {
	if err != nil {
		s.failed(ctx, method, err)
		return &api.StatusResponse{
			Success: false,
			Message: common.Message(err, internalErrorMessage),
			Code:    common.Code(err),
		}
	}
	return &api.StatusResponse{Success: true, Message: okMessage}
}

func (s *GRPCServer) authResponse(ctx context.Context, method string, token string, err error, okMessage string) *api.AuthResponse {
	if err != nil {
		s.failed(ctx, method, err)
		return &api.AuthResponse{
			Success: false,
			Message: common.Message(err, internalErrorMessage),
			Code:    common.Code(err),
		}
	}
	return &api.AuthResponse{Success: true, Message: okMessage, SessionToken: token}
}

func (s *GRPCServer) Register(ctx context.Context, req *api.AuthRequest) (*api.AuthResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	token, err := s.accounts.Register(ctx, req.Username, req.Password)
	if err == nil {
		s.logger.Info(ctx, "Registered", "username", req.Username)
	}

	return s.authResponse(ctx, "Register", token, err, "Registration successful"), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.AuthRequest) (*api.AuthResponse, error) {

	token, err := s.accounts.Login(ctx, req.Username, req.Password)

	return s.authResponse(ctx, "Login", token, err, "Login successful"), nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.SessionRequest) (*api.StatusResponse, error) {

	err := s.accounts.Logout(ctx, req.SessionToken)

	return s.statusResponse(ctx, "Logout", err, "Logged out"), nil
}

func (s *GRPCServer) Disconnect(ctx context.Context, req *api.SessionRequest) (*api.StatusResponse, error) {

	n, err := s.messaging.Disconnect(ctx, req.SessionToken)
	if err == nil {
		s.logger.Info(ctx, "Disconnected", "subscriptions", n)
	}

	return s.statusResponse(ctx, "Disconnect", err, "Disconnected"), nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *api.SessionRequest) (*api.StatusResponse, error) {

	err := s.accounts.DeleteAccount(ctx, req.SessionToken)

	return s.statusResponse(ctx, "DeleteAccount", err, "Account deleted successfully"), nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.StatusResponse, error) {

	_, err := s.messaging.SendMessage(ctx, req.SessionToken, req.Recipient, req.Content)

	return s.statusResponse(ctx, "SendMessage", err, "Message sent"), nil
}

// GetMessages fails with a gRPC status instead of an in-band result:
// Unauthenticated for a bad token, InvalidArgument for a bad limit and
// Internal for storage failures.
func (s *GRPCServer) GetMessages(ctx context.Context, req *api.GetMessagesRequest) (*api.MessageList, error) {

	msgs, err := s.messaging.GetMessages(ctx, req.SessionToken, req.PeerUsername, int(req.LastNMessages))
	if err != nil {
		s.failed(ctx, "GetMessages", err)
		return nil, toStatus(err)
	}

	return &api.MessageList{Messages: toWireMessages(msgs)}, nil
}

func (s *GRPCServer) DeleteMessage(ctx context.Context, req *api.DeleteMessageRequest) (*api.StatusResponse, error) {

	err := s.messaging.DeleteMessage(ctx, req.SessionToken, req.MessageID)

	return s.statusResponse(ctx, "DeleteMessage", err, "Message deleted"), nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {

	return &api.PingResponse{Status: "OK"}, nil

}

// toStatus maps a service error onto a gRPC status for the calls that do
// not answer in-band.
func toStatus(err error) error {
	msg := common.Message(err, internalErrorMessage)
	switch common.Code(err) {
	case common.CodeUnauthenticated:
		return status.Error(codes.Unauthenticated, msg)
	case common.CodeValidation:
		return status.Error(codes.InvalidArgument, msg)
	case common.CodeForbidden:
		return status.Error(codes.PermissionDenied, msg)
	case common.CodeNotFound:
		return status.Error(codes.NotFound, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
