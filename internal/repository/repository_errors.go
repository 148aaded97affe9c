package repository

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrConflict      = errors.New("constraint violation")
)
