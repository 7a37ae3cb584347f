package auth

import "errors"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrEmptyPassword = errors.New("empty password")
)
