// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/ggview/input"
	"github.com/gogpu/ggview/internal/image"
)

// Order is the byte order of the colour channels in a destination pixel.
type Order uint8

const (
	// OrderBGR stores blue, green, red, padding. It matches the 24-bit-depth
	// ZPixmap layout of X11 on little-endian machines.
	OrderBGR Order = iota

	// OrderRGB stores red, green, blue, padding, as RGBA textures expect.
	OrderRGB
)

// String returns a string representation of the order.
func (o Order) String() string {
	if o == OrderRGB {
		return "RGB"
	}
	return "BGR"
}

// Format returns the pixel format the resampler writes for this order.
func (o Order) Format() image.Format {
	if o == OrderRGB {
		return image.FormatRGBA8
	}
	return image.FormatBGRA8
}

// Surface is a window-sized destination for resampled pixels.
//
// Every pixel is four bytes: three colour bytes in Order and one padding
// byte. Rows are Stride bytes apart. The resampler writes colour bytes only,
// so a presenter may keep the padding bytes set to whatever its window system
// expects.
type Surface struct {
	Width, Height int
	Stride        int
	Pix           []byte
	Order         Order

	buf *image.ImageBuf
}

// New wraps pix as a surface. It returns an error if pix cannot hold
// height rows of stride bytes.
func New(width, height, stride int, order Order, pix []byte) (*Surface, error) {
	buf, err := image.FromRaw(pix, width, height, order.Format(), stride)
	if err != nil {
		return nil, err
	}
	return &Surface{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    buf.Data(),
		Order:  order,
		buf:    buf,
	}, nil
}

// Buffer returns the surface as an image buffer sharing Pix.
func (s *Surface) Buffer() (*image.ImageBuf, error) {
	if s.buf != nil {
		return s.buf, nil
	}
	buf, err := image.FromRaw(s.Pix, s.Width, s.Height, s.Order.Format(), s.Stride)
	if err != nil {
		return nil, err
	}
	s.buf = buf
	return buf, nil
}

// Presenter is the window-system side of the viewer.
type Presenter interface {
	// NewSurface allocates a destination for a width×height client area.
	NewSurface(width, height int) (*Surface, error)

	// Release returns a surface obtained from NewSurface.
	Release(s *Surface)

	// Blit shows the contents of s in the window.
	Blit(s *Surface) error

	// SetAspect hints the window manager to keep the window at the aspect
	// ratio of a width×height image.
	SetAspect(width, height int)
}

// Host is a Presenter that also owns the event loop.
type Host interface {
	Presenter

	// Run pushes window-system events onto q and calls step once per
	// iteration of the host loop. Run returns the first error step returns.
	Run(q *input.Queue, step func() error) error
}
