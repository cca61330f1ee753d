package services

import "errors"

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDataUnavailable wraps any failure at the data-fetch boundary.
	ErrDataUnavailable = errors.New("failed to retrieve data")
)
