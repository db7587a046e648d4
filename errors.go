package ggview

import "errors"

// Errors.
var (
	// ErrQuit is returned when the user asks to quit. It is not a failure.
	ErrQuit = errors.New("ggview: quit")

	// ErrNoValidImages is returned when every file in the list failed to
	// open or decode.
	ErrNoValidImages = errors.New("ggview: no valid images to view")

	// ErrNoFiles is returned when the viewer is created without files.
	ErrNoFiles = errors.New("ggview: no files")
)
