// Package models holds the persisted chat records shared by repositories
// and services. Timestamps are unix milliseconds.
package models
