// Package image provides the pixel buffers and fixed-point resamplers used by ggview.
//
// Source buffers hold tightly packed RGB rows as produced by the format
// backends. Destination buffers hold four bytes per pixel (three colour bytes
// and one padding byte) with an arbitrary row stride chosen by the presenter.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no padding).
	// Decoded images are always stored in this format.
	FormatRGB8 Format = iota

	// FormatRGBA8 is 32-bit R, G, B, X where X is a padding byte.
	// Used by hosts that upload RGBA textures.
	FormatRGBA8

	// FormatBGRA8 is 32-bit B, G, R, X where X is a padding byte.
	// Matches the 24-bit-depth ZPixmap layout of X11 on little-endian machines.
	FormatBGRA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel, padding included.
	BytesPerPixel int

	// Red, Green and Blue are the byte offsets of each colour channel
	// within a pixel.
	Red, Green, Blue int

	// HasPadding indicates the pixel carries a byte the scalers never write.
	HasPadding bool
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatRGB8: {
		BytesPerPixel: 3,
		Red:           0,
		Green:         1,
		Blue:          2,
	},
	FormatRGBA8: {
		BytesPerPixel: 4,
		Red:           0,
		Green:         1,
		Blue:          2,
		HasPadding:    true,
	},
	FormatBGRA8: {
		BytesPerPixel: 4,
		Red:           2,
		Green:         1,
		Blue:          0,
		HasPadding:    true,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// HasPadding returns true if the format has a padding byte per pixel.
func (f Format) HasPadding() bool {
	return f.Info().HasPadding
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
