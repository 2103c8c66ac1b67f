package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gophchat.ChatService"

const (
	ChatService_Register_FullMethodName      = "/gophchat.ChatService/Register"
	ChatService_Login_FullMethodName         = "/gophchat.ChatService/Login"
	ChatService_Logout_FullMethodName        = "/gophchat.ChatService/Logout"
	ChatService_Disconnect_FullMethodName    = "/gophchat.ChatService/Disconnect"
	ChatService_DeleteAccount_FullMethodName = "/gophchat.ChatService/DeleteAccount"
	ChatService_SendMessage_FullMethodName   = "/gophchat.ChatService/SendMessage"
	ChatService_GetMessages_FullMethodName   = "/gophchat.ChatService/GetMessages"
	ChatService_DeleteMessage_FullMethodName = "/gophchat.ChatService/DeleteMessage"
	ChatService_Connect_FullMethodName       = "/gophchat.ChatService/Connect"
	ChatService_Ping_FullMethodName          = "/gophchat.ChatService/Ping"
)

type ChatService_ConnectServer = grpc.ServerStreamingServer[ChatEvent]
type ChatService_ConnectClient = grpc.ServerStreamingClient[ChatEvent]

// ChatServiceServer is implemented by the chat server.
type ChatServiceServer interface {
	Register(context.Context, *AuthRequest) (*AuthResponse, error)
	Login(context.Context, *AuthRequest) (*AuthResponse, error)
	Logout(context.Context, *SessionRequest) (*StatusResponse, error)
	Disconnect(context.Context, *SessionRequest) (*StatusResponse, error)
	DeleteAccount(context.Context, *SessionRequest) (*StatusResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*StatusResponse, error)
	GetMessages(context.Context, *GetMessagesRequest) (*MessageList, error)
	DeleteMessage(context.Context, *DeleteMessageRequest) (*StatusResponse, error)
	Connect(*SessionRequest, ChatService_ConnectServer) error
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

// unaryHandler adapts one ChatServiceServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(ChatServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func connectHandler(srv any, stream grpc.ServerStream) error {
	in := new(SessionRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ChatServiceServer).Connect(in, &grpc.GenericServerStream[SessionRequest, ChatEvent]{ServerStream: stream})
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(ChatService_Register_FullMethodName, ChatServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(ChatService_Login_FullMethodName, ChatServiceServer.Login)},
		{MethodName: "Logout", Handler: unaryHandler(ChatService_Logout_FullMethodName, ChatServiceServer.Logout)},
		{MethodName: "Disconnect", Handler: unaryHandler(ChatService_Disconnect_FullMethodName, ChatServiceServer.Disconnect)},
		{MethodName: "DeleteAccount", Handler: unaryHandler(ChatService_DeleteAccount_FullMethodName, ChatServiceServer.DeleteAccount)},
		{MethodName: "SendMessage", Handler: unaryHandler(ChatService_SendMessage_FullMethodName, ChatServiceServer.SendMessage)},
		{MethodName: "GetMessages", Handler: unaryHandler(ChatService_GetMessages_FullMethodName, ChatServiceServer.GetMessages)},
		{MethodName: "DeleteMessage", Handler: unaryHandler(ChatService_DeleteMessage_FullMethodName, ChatServiceServer.DeleteMessage)},
		{MethodName: "Ping", Handler: unaryHandler(ChatService_Ping_FullMethodName, ChatServiceServer.Ping)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Connect", Handler: connectHandler, ServerStreams: true},
	},
	Metadata: "gophchat/chat",
}

// ChatServiceClient is the client side of the chat service.
type ChatServiceClient interface {
	Register(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Logout(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	Disconnect(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	DeleteAccount(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	GetMessages(ctx context.Context, in *GetMessagesRequest, opts ...grpc.CallOption) (*MessageList, error)
	DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	Connect(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (ChatService_ConnectClient, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

// withCodec puts the CBOR subtype first so callers can still override it.
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) Register(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, ChatService_Register_FullMethodName, in, opts)
}

func (c *chatServiceClient) Login(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, ChatService_Login_FullMethodName, in, opts)
}

func (c *chatServiceClient) Logout(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ChatService_Logout_FullMethodName, in, opts)
}

func (c *chatServiceClient) Disconnect(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ChatService_Disconnect_FullMethodName, in, opts)
}

func (c *chatServiceClient) DeleteAccount(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ChatService_DeleteAccount_FullMethodName, in, opts)
}

func (c *chatServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ChatService_SendMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetMessages(ctx context.Context, in *GetMessagesRequest, opts ...grpc.CallOption) (*MessageList, error) {
	return invoke[MessageList](ctx, c.cc, ChatService_GetMessages_FullMethodName, in, opts)
}

func (c *chatServiceClient) DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, ChatService_DeleteMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, ChatService_Ping_FullMethodName, in, opts)
}

func (c *chatServiceClient) Connect(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (ChatService_ConnectClient, error) {
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[0], ChatService_Connect_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SessionRequest, ChatEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
