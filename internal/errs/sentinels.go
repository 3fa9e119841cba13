// Package errs contains the sentinel errors shared by the storage, store and
// recognizer layers. Callers match them with errors.Is.
package errs

import "errors"

var (
	// ErrParse indicates a stored record is malformed and could not be decoded.
	ErrParse = errors.New("malformed stored data")

	// ErrQuotaExceeded indicates the durable medium rejected a write because it is full.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrPersistence indicates a write did not durably take effect.
	ErrPersistence = errors.New("persistence failure")

	// ErrRecognition indicates food recognition failed or produced nothing usable.
	ErrRecognition = errors.New("recognition failure")

	// ErrInvalidEntry indicates a food entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
)
