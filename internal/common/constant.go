// Package common contains shared constants, the error taxonomy and small
// helpers used by both the chat server and the chat client.
package common

// SessionIDBytes is the amount of randomness behind each session id.
const SessionIDBytes = 32
