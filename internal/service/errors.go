package service

import "errors"

var (
	// ErrNotFound is returned when the addressed assignment or work range doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrEmptyUpdate is returned when an update carries no known field
	ErrEmptyUpdate = errors.New("no fields to update")
)
