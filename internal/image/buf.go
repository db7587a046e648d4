package image

import (
	"errors"
)

// Errors returned when a buffer layout is rejected.
var (
	ErrInvalidDimensions = errors.New("image: invalid dimensions")
	ErrInvalidFormat     = errors.New("image: invalid format")
	ErrInvalidStride     = errors.New("image: stride too small for width")
	ErrDataTooSmall      = errors.New("image: data buffer too small")
)

// ImageBuf is a pixel buffer with an explicit row stride.
//
// Rows may be padded beyond format.RowBytes(width). Everything past the last
// pixel of a row belongs to the owner of the buffer and is never touched by
// the scalers.
//
// ImageBuf is not safe for concurrent writes.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// checkLayout validates a width×height buffer of format with the given row
// stride and returns the number of pixel bytes per row.
func checkLayout(width, height int, format Format, stride int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return 0, ErrInvalidFormat
	}
	row := format.RowBytes(width)
	if stride < row {
		return 0, ErrInvalidStride
	}
	return row, nil
}

// NewImageBuf allocates a zeroed buffer. A stride of 0 packs the rows.
func NewImageBuf(width, height int, format Format, stride int) (*ImageBuf, error) {
	if stride == 0 && format.IsValid() {
		stride = format.RowBytes(width)
	}
	if _, err := checkLayout(width, height, format, stride); err != nil {
		return nil, err
	}
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps data without copying. The last row only needs its pixels,
// so a tight final row without trailing padding is accepted.
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	row, err := checkLayout(width, height, format, stride)
	if err != nil {
		return nil, err
	}
	if len(data) < stride*(height-1)+row {
		return nil, ErrDataTooSmall
	}
	if len(data) > stride*height {
		data = data[:stride*height]
	}
	return &ImageBuf{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone returns a deep copy of b.
func (b *ImageBuf) Clone() *ImageBuf {
	c := *b
	c.data = append([]byte(nil), b.data...)
	return &c
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Stride returns the number of bytes per row, padding included.
func (b *ImageBuf) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *ImageBuf) Format() Format { return b.format }

// Data returns the raw pixel data.
func (b *ImageBuf) Data() []byte { return b.data }

// RowBytes returns the pixels of row y without the row padding, or nil when
// y is out of range.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// GetRGB returns the colour at (x, y), or black outside the image.
func (b *ImageBuf) GetRGB(x, y int) (r, g, bl uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0
	}
	info := b.format.Info()
	px := b.data[y*b.stride+x*info.BytesPerPixel:]
	return px[info.Red], px[info.Green], px[info.Blue]
}

// Clear zeroes every byte of the buffer, padding included.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// FillPadding sets the padding byte of every pixel to v.
// Hosts that upload RGBA use it to make the padding an opaque alpha.
func (b *ImageBuf) FillPadding(v uint8) {
	if !b.format.HasPadding() {
		return
	}
	bpp := b.format.BytesPerPixel()
	for y := range b.height {
		row := b.RowBytes(y)
		for i := bpp - 1; i < len(row); i += bpp {
			row[i] = v
		}
	}
}
