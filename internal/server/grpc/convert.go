package grpc

import (
	"github.com/dmitrijs2005/gophchat/internal/api"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/samber/lo"
)

func toWireMessage(m models.Message) *api.Message {
	return &api.Message{
		ID:        m.ID,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Read:      m.Read,
	}
}

func toWireMessages(msgs []models.Message) []*api.Message {
	return lo.Map(msgs, func(m models.Message, _ int) *api.Message {
		return toWireMessage(m)
	})
}

func toWireEvent(ev events.Event) *api.ChatEvent {
	out := &api.ChatEvent{Type: string(ev.Kind())}
	switch e := ev.(type) {
	case events.NewMessage:
		out.Message = toWireMessage(e.Message)
	case events.MessageDeleted:
		out.MessageID = e.ID
	case events.UserOnline:
		out.Username = e.Username
	case events.UserOffline:
		out.Username = e.Username
	}
	return out
}
