package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrEmptyField is returned when a source or target is blank after trimming.
	ErrEmptyField = errors.New("source and target must not be empty")

	// ErrDuplicateEntry is returned when an entry with the same normalized key exists.
	ErrDuplicateEntry = errors.New("entry already exists")

	// ErrMalformedEntry is returned by Normalize for raw data that cannot be
	// turned into an entry (missing or non-string source/target).
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrEntryNotFound is returned when no entry matches a key.
	ErrEntryNotFound = errors.New("entry not found")
)
