package services

import "github.com/dmitrijs2005/gophchat/internal/common"

// Client-facing outcomes. Compare with errors.Is.
var (
	ErrEmptyCredentials = common.NewError(common.ErrorValidation, "Username and password cannot be empty")
	ErrEmptyContent     = common.NewError(common.ErrorValidation, "Message content cannot be empty")
	ErrNegativeLimit    = common.NewError(common.ErrorValidation, "Message limit cannot be negative")
	ErrUsernameTaken    = common.NewError(common.ErrorAlreadyExists, "Username already exists")
	ErrBadCredentials   = common.NewError(common.ErrorUnauthorized, "Invalid username or password")
	ErrInvalidSession   = common.NewError(common.ErrorUnauthorized, "Invalid session")
	ErrNotParticipant   = common.NewError(common.ErrorForbidden, "Only the sender or the recipient can delete a message")
	ErrRecipientMissing = common.NewError(common.ErrorNotFound, "Recipient does not exist")
	ErrMessageNotFound  = common.NewError(common.ErrorNotFound, "Message not found")
)
