package exchange

import "errors"

var (
	ErrNotFound     = errors.New("book not found")
	ErrAlreadyTaken = errors.New("book already taken")
	ErrSelfTake     = errors.New("cannot take your own book")
)
