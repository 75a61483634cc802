package domain

import "errors"

// Error kinds surfaced by generation. Failures wrap one of these with %w so
// callers can branch with errors.Is.
var (
	// ErrConfiguration indicates no model was selected, the model could not
	// be resolved, or the category catalog is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrCredential indicates the selected provider has no API key.
	ErrCredential = errors.New("credential error")

	// ErrTransport indicates the HTTP call failed or returned a non-2xx status.
	ErrTransport = errors.New("transport error")

	// ErrResponseFormat indicates the provider body matched no known schema.
	ErrResponseFormat = errors.New("response format error")

	// ErrNoResults indicates a generation call produced nothing at all.
	ErrNoResults = errors.New("no results were generated")
)
