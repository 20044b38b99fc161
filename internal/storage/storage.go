package storage

import "errors"

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already taken")
	ErrUserNotFound = errors.New("user not found")
)
