// Package api is the wire contract of the chat service: request and
// response types, a CBOR codec for gRPC, the service descriptor, the
// server interface and a client stub.
//
// Clients must send requests with the "cbor" content subtype. The client
// stub returned by NewChatServiceClient does that on every call.
package api
