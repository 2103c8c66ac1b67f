// Package services contains the chat server's business logic: session
// issuance and validation, account lifecycle and messaging. Every outcome
// that reaches a client is either a value or a *common.Error whose Msg is
// safe to show.
package services
