// Package common defines shared constants and sentinel errors used across
// the ChatVault client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorStorageFailure wraps any write failure of the underlying
	// key-value store, so callers can surface "could not save — your
	// storage may be full" instead of an opaque driver error.
	ErrorStorageFailure = errors.New("storage failure")

	// Archive errors (import structural validation).
	ErrorInvalidArchive = errors.New("invalid archive")

	// Provider errors.
	ErrorUnknownProvider = errors.New("unknown provider")
	ErrorMissingAPIKey   = errors.New("missing api key")
)
