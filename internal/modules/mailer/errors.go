package mailer

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNoRecipient = errors.New("no recipient address")
)
