package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpToken     = errors.New("expired token")
	ErrUnknownRole  = errors.New("unknown role in token")
)
