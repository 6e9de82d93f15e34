package service

import "errors"

var (
	// ErrInvalidPath is returned when an added path is empty or does not exist
	ErrInvalidPath = errors.New("file does not exist")

	// ErrNotFound is returned when no entry matches an id, or the entry is
	// not downloadable in the requested way
	ErrNotFound = errors.New("file not found")
)
