package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("uploaded file is empty")

	// ErrNoProviderConfigured means no extraction provider has credentials.
	ErrNoProviderConfigured = errors.New("no extraction provider configured")
	// ErrExtractionFailed means every configured provider was attempted and failed.
	ErrExtractionFailed = errors.New("invoice extraction failed")
	ErrInvalidDocument  = errors.New("document does not match the invoice schema")
)
