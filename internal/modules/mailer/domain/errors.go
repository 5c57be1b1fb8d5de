package domain

import "errors"

var (
	ErrDispatchFailed = errors.New("email dispatch failed")
)
