package service

import "errors"

var (
	// ErrUserServiceUnavailable means the owner lookup came back as the
	// directory fallback on a path that must not proceed without a real user.
	ErrUserServiceUnavailable = errors.New("user service is unavailable")

	ErrAccessDenied = errors.New("access denied")
	ErrEmptyOrder   = errors.New("order must contain at least one line")
)
