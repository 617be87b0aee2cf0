package client

import "errors"

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client already exists")
	ErrInvalidEmail        = errors.New("invalid email format")
)
