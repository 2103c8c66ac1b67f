package services

import "github.com/go-playground/validator/v10"

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type outgoingMessage struct {
	Content string `validate:"required"`
}

type historyQuery struct {
	Limit int `validate:"gte=0"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
