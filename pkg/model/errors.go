package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidInput is returned before the pipeline starts, e.g. for an
	// empty customer name or a negative budget.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrUnsupportedFormat is returned when a file input cannot be
	// converted to plain text.
	ErrUnsupportedFormat = goerr.New("unsupported file format")

	// ErrEmptyInput is returned when there is no text to extract from.
	ErrEmptyInput = goerr.New("empty input")

	// ErrCatalogUnavailable indicates the parts catalog could not be
	// reached. The BOM generator recovers with placeholder line items.
	ErrCatalogUnavailable = goerr.New("parts catalog unavailable")

	// ErrStoreUnavailable indicates the knowledge store could not be
	// queried. Search degrades to zero matches.
	ErrStoreUnavailable = goerr.New("knowledge store unavailable")

	// ErrPersistenceFailure is fatal for the request: a quote that cannot
	// be saved is not considered generated.
	ErrPersistenceFailure = goerr.New("failed to persist quote")

	ErrQuoteNotFound   = goerr.New("quote not found")
	ErrProjectNotFound = goerr.New("reference project not found")
)
