// Package client contains the client-side library of the chat service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     account calls, messaging calls, Ping and the live event subscription.
//  2. A concrete gRPC implementation (see GRPCClient) that speaks the CBOR
//     codec, remembers the session token after Register/Login, applies a
//     per-call timeout via an interceptor and maps failures to errors.
//
// # Error Handling
//
// Transport conditions are sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized and ErrNotLoggedIn. A call the server
// answered with success=false yields a *ResultError carrying the server's
// code and message.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use: Subscribe typically runs in its
// own goroutine next to the interactive calls.
package client
