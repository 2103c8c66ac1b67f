package api

// SubscribedHeader is sent in the Connect response header once the
// subscription is live; its value is the subscribed username.
const SubscribedHeader = "x-chat-subscribed"

// Event types carried in ChatEvent.Type.
const (
	EventNewMessage     = "NEW_MESSAGE"
	EventMessageDeleted = "MESSAGE_DELETED"
	EventUserOnline     = "USER_ONLINE"
	EventUserOffline    = "USER_OFFLINE"
)

type AuthRequest struct {
	Username string `cbor:"username"`
	Password string `cbor:"password"`
}

// AuthResponse answers Register and Login. SessionToken is set only on
// success.
type AuthResponse struct {
	Success      bool   `cbor:"success"`
	Message      string `cbor:"message"`
	Code         string `cbor:"code"`
	SessionToken string `cbor:"session_token"`
}

func (r *AuthResponse) ResultCode() string { return r.Code }

type SessionRequest struct {
	SessionToken string `cbor:"session_token"`
}

// StatusResponse answers every mutating call that does not hand out a
// token. Code is empty on success.
type StatusResponse struct {
	Success bool   `cbor:"success"`
	Message string `cbor:"message"`
	Code    string `cbor:"code"`
}

func (r *StatusResponse) ResultCode() string { return r.Code }

type SendMessageRequest struct {
	SessionToken string `cbor:"session_token"`
	Recipient    string `cbor:"recipient"`
	Content      string `cbor:"content"`
}

// GetMessagesRequest with an empty PeerUsername asks for unread messages.
// LastNMessages zero means no limit.
type GetMessagesRequest struct {
	SessionToken  string `cbor:"session_token"`
	PeerUsername  string `cbor:"peer_username"`
	LastNMessages int32  `cbor:"last_n_messages"`
}

// Message timestamps are Unix milliseconds.
type Message struct {
	ID        string `cbor:"id"`
	Sender    string `cbor:"sender"`
	Recipient string `cbor:"recipient"`
	Content   string `cbor:"content"`
	Timestamp int64  `cbor:"timestamp"`
	Read      bool   `cbor:"read"`
}

type MessageList struct {
	Messages []*Message `cbor:"messages"`
}

type DeleteMessageRequest struct {
	SessionToken string `cbor:"session_token"`
	MessageID    string `cbor:"message_id"`
}

// ChatEvent is one pushed event. Which of Message, MessageID and Username
// is set depends on Type.
type ChatEvent struct {
	Type      string   `cbor:"type"`
	Message   *Message `cbor:"message,omitempty"`
	MessageID string   `cbor:"message_id,omitempty"`
	Username  string   `cbor:"username,omitempty"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `cbor:"status"`
}
