package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// ResultError is a call the server rejected in-band.
type ResultError struct {
	Code    string
	Message string
}

func (e *ResultError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is lets an unauthenticated result match ErrUnauthorized.
func (e *ResultError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == "unauthenticated"
}
