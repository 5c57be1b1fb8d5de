package domain

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired download token")
	ErrNotPurchased = errors.New("no completed purchase for this ebook")
	ErrNotFound     = errors.New("ebook file not found")
	ErrInvalidPath  = errors.New("invalid ebook file path")
)
