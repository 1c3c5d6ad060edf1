package auth

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
