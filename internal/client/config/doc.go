// Package config loads the chat client's settings: defaults, an optional
// JSON file (-c/-config or CHAT_CLIENT_CONFIG), CHAT_* environment
// variables and finally command-line flags.
package config
