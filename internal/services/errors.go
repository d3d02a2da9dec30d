package services

import "errors"

// Dataset service errors
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrEmptyUpload     = errors.New("uploaded file is empty")
	// ErrLoadFailed wraps any parse or derivation failure. The underlying
	// cause is always attached.
	ErrLoadFailed = errors.New("price file could not be loaded")
)
