package format

import (
	"fmt"
	"io"

	"github.com/gogpu/ggview/internal/image"
)

// Image is a probed, and possibly decoded, image file.
//
// A probe fills in the dimensions and backend state. Pix stays nil until
// Alloc is called, and Decode fills every byte of it.
type Image struct {
	// Path is the file the image was opened from.
	Path string

	// SourceWidth and SourceHeight are the logical decoded dimensions.
	SourceWidth, SourceHeight int

	// BufferWidth and BufferHeight are the dimensions of Pix. A backend may
	// ask for a buffer larger than the image, never smaller.
	BufferWidth, BufferHeight int

	// Pix holds packed RGB rows, BufferWidth pixels per row.
	Pix []byte

	// Backend is the registry entry that recognized the file.
	Backend Backend

	// State is private to Backend.
	State any

	file   io.Closer
	closed bool
}

// Validate checks the dimension invariants of the shell.
func (img *Image) Validate() error {
	switch {
	case img.SourceWidth < 1 || img.SourceHeight < 1:
		return fmt.Errorf("%w: source %dx%d", ErrInvalidImage, img.SourceWidth, img.SourceHeight)
	case img.BufferWidth < img.SourceWidth || img.BufferHeight < img.SourceHeight:
		return fmt.Errorf("%w: buffer %dx%d smaller than source %dx%d", ErrInvalidImage,
			img.BufferWidth, img.BufferHeight, img.SourceWidth, img.SourceHeight)
	}
	return nil
}

// Stride returns the number of bytes per row of Pix.
func (img *Image) Stride() int {
	return image.FormatRGB8.RowBytes(img.BufferWidth)
}

// Alloc allocates Pix for the buffer dimensions. It is a no-op when a buffer
// of the right size is already present.
func (img *Image) Alloc() {
	n := image.FormatRGB8.ImageBytes(img.BufferWidth, img.BufferHeight)
	if len(img.Pix) == n {
		return
	}
	img.Pix = make([]byte, n)
}

// Buffer returns Pix wrapped as an RGB8 image buffer without copying.
func (img *Image) Buffer() (*image.ImageBuf, error) {
	return image.FromRaw(img.Pix, img.BufferWidth, img.BufferHeight, image.FormatRGB8, img.Stride())
}

// Close releases the backend state and the underlying file. Pix is kept.
// Close is idempotent.
func (img *Image) Close() error {
	if img.closed {
		return nil
	}
	img.closed = true

	if img.Backend != nil {
		img.Backend.Close(img)
	}
	img.State = nil
	if img.file != nil {
		return img.file.Close()
	}
	return nil
}
