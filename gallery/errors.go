package gallery

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the package.
var (
	// ErrNoItems is returned when a session is created for an empty source.
	ErrNoItems = errors.New("gallery: item source is empty")

	// ErrIndexOutOfRange is returned when the start index is not in [0, count).
	ErrIndexOutOfRange = errors.New("gallery: index out of range")

	// ErrItemUnavailable is returned when the source has no item for the start index.
	ErrItemUnavailable = errors.New("gallery: item unavailable")

	// ErrNoImage is reported when a fetch finished without producing an image.
	ErrNoImage = errors.New("gallery: fetch produced no image")

	// ErrUnsupportedOptionsFormat is returned by LoadOptions for unknown file extensions.
	ErrUnsupportedOptionsFormat = errors.New("gallery: unsupported options format")

	// ErrNoWindow is returned when a session is created without a host window.
	ErrNoWindow = errors.New("gallery: host window is required")
)

// FetchError wraps a failed image fetch for one item.
type FetchError struct {
	Index int
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("gallery: fetch item %d: %v", e.Index, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is, or wraps, a FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// OptionError describes an invalid Options field.
type OptionError struct {
	Field  string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("gallery: option %s %s", e.Field, e.Reason)
}
