package format

import "errors"

// Errors.
var (
	// ErrUnknownFormat is matched by every *FormatError.
	ErrUnknownFormat = errors.New("format: unknown image format")

	// ErrProbeOrder is returned when a backend is registered after a
	// consuming backend.
	ErrProbeOrder = errors.New("format: backend registered after a consuming backend")

	// ErrInvalidImage is returned when an image shell has impossible dimensions.
	ErrInvalidImage = errors.New("format: invalid image dimensions")

	// ErrBufferTooSmall is returned when a pixel buffer cannot hold the image.
	ErrBufferTooSmall = errors.New("format: pixel buffer too small")

	// errNoStream is returned when a shell reaches Decode without its stream.
	errNoStream = errors.New("format: image has no decoder state")
)

// OpenError indicates a file could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return "format: open " + e.Path + ": " + e.Err.Error()
}

func (e *OpenError) Unwrap() error { return e.Err }

// FormatError indicates no registered backend recognized a file.
type FormatError struct {
	Path string
}

func (e *FormatError) Error() string {
	return "format: " + e.Path + ": unknown image format"
}

func (e *FormatError) Unwrap() error { return ErrUnknownFormat }

// DecodeError indicates a backend recognized a file but failed to decode it.
type DecodeError struct {
	Path    string
	Backend string
	Err     error
}

func (e *DecodeError) Error() string {
	return "format: decode " + e.Path + " (" + e.Backend + "): " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
