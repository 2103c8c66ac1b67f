// Package cli provides the interactive chat command-line client.
//
// It wires configuration, the gRPC chat client and a REPL. After register or
// login a background subscription prints pushed events (new and deleted
// messages, peers going online or offline) while the user keeps typing
// commands. A connectivity watcher pings the server and shows the result in
// the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
