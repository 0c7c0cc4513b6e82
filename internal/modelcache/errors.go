package modelcache

import "errors"

var (
	// ErrModelNotFound: the source model path does not exist or is not a
	// regular file.
	ErrModelNotFound = errors.New("model file not found")

	// ErrUnsupportedFormat: the source model does not carry the recognized
	// model extension.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrMetadataRead: a derived artifact exists but its metadata sidecar is
	// missing or unreadable.
	ErrMetadataRead = errors.New("failed to read derived artifact metadata")
)
