package chat

import "errors"

var (
	ErrClientQueueFull = errors.New("client message queue is full")
	ErrInvalidEvent    = errors.New("invalid event format")
	ErrNotInRoom       = errors.New("connection has not joined a room")
)
