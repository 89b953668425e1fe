package database

import "errors"

var (
	ErrDuplicateID     = errors.New("message id already exists")
	ErrMessageNotFound = errors.New("message not found")
	ErrGroupExists     = errors.New("group already exists")
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)
