package grpc

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"invalid session", services.ErrInvalidSession, codes.Unauthenticated, "Invalid session"},
		{"negative limit", services.ErrNegativeLimit, codes.InvalidArgument, "Message limit cannot be negative"},
		{"not a participant", services.ErrNotParticipant, codes.PermissionDenied, "Only the sender or the recipient can delete a message"},
		{"unknown message", services.ErrMessageNotFound, codes.NotFound, "Message not found"},
		{"storage failure", errors.New("disk on fire"), codes.Internal, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(toStatus(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}
