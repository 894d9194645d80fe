package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed or missing request fields
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedURL is returned when a URL does not belong to a supported platform
	ErrUnsupportedURL = errors.New("only Twitter/X URLs are supported for analysis")
)
