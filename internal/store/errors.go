package store

import "errors"

var (
	// ErrDuplicateKey is returned by Add when the natural key is already taken
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned when no record matches a key or predicate
	ErrNotFound = errors.New("record not found")

	// ErrUnknownTransition is returned by Apply for a transition name that is
	// not in the collection's table
	ErrUnknownTransition = errors.New("unknown transition")
)
