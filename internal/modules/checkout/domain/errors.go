package domain

import "errors"

var (
	ErrInvalidRequest   = errors.New("missing cart items or email")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("missing customer email or ebook ids")
)
