// Package events defines the closed set of events pushed to live
// subscribers. Event is sealed: only the four types below implement it, so
// a type switch over them is exhaustive.
package events

import "github.com/dmitrijs2005/gophchat/internal/server/models"

type Kind string

const (
	KindNewMessage     Kind = "NEW_MESSAGE"
	KindMessageDeleted Kind = "MESSAGE_DELETED"
	KindUserOnline     Kind = "USER_ONLINE"
	KindUserOffline    Kind = "USER_OFFLINE"
)

type Event interface {
	Kind() Kind
	sealed()
}

type NewMessage struct {
	Message models.Message
}

type MessageDeleted struct {
	ID string
}

type UserOnline struct {
	Username string
}

type UserOffline struct {
	Username string
}

func (NewMessage) Kind() Kind     { return KindNewMessage }
func (MessageDeleted) Kind() Kind { return KindMessageDeleted }
func (UserOnline) Kind() Kind     { return KindUserOnline }
func (UserOffline) Kind() Kind    { return KindUserOffline }

func (NewMessage) sealed()     {}
func (MessageDeleted) sealed() {}
func (UserOnline) sealed()     {}
func (UserOffline) sealed()    {}
