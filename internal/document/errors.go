package document

import "errors"

var (
	// ErrUnsupportedType indicates a non-text upload.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrEmptyDocument indicates an upload with no extractable text.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrTooLarge indicates an upload exceeding the configured size limit.
	ErrTooLarge = errors.New("document exceeds size limit")
)
