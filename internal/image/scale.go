package image

import (
	"fmt"
	"strings"
)

// InterpolationMode defines how source pixels are mapped onto the destination.
type InterpolationMode uint8

const (
	// InterpNearest copies the source pixel the fixed-point position falls into.
	// Fast but blocky when scaling up.
	InterpNearest InterpolationMode = iota

	// InterpBilinear blends the 4 neighbouring source pixels.
	// This is the default for the viewer.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// ParseInterpolation parses a mode name as accepted in configuration.
func ParseInterpolation(s string) (InterpolationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return InterpNearest, nil
	case "bilinear", "":
		return InterpBilinear, nil
	default:
		return 0, fmt.Errorf("image: unknown interpolation mode %q", s)
	}
}

// Positions are tracked in 22.10 fixed point.
const (
	fracBits = 10
	fracOne  = 1 << fracBits
	fracMask = fracOne - 1
)

// colWeight is the horizontal mapping of one destination column.
// off and next are byte offsets into a source row of the base pixel and
// its right neighbour (clamped to the last column).
type colWeight struct {
	off  int
	next int
	frac uint32
}

// Scaler resamples RGB8 source buffers into 4-byte destination buffers.
//
// A Scaler keeps its column table between calls so that repeated frames of
// the same width do not allocate. It is not safe for concurrent use.
type Scaler struct {
	mode InterpolationMode
	cols []colWeight
}

// NewScaler returns a scaler using the given interpolation mode.
func NewScaler(mode InterpolationMode) *Scaler {
	return &Scaler{mode: mode}
}

// Mode returns the interpolation mode of the scaler.
func (s *Scaler) Mode() InterpolationMode {
	return s.mode
}

// Scale fills every colour byte of dst from src, stretching src to dst's size.
// src must be FormatRGB8; dst must be a padded 4-byte format. Padding bytes and
// the bytes between the end of a row and the stride are never written.
func (s *Scaler) Scale(dst, src *ImageBuf) error {
	if err := checkScale(dst, src); err != nil {
		return err
	}
	switch s.mode {
	case InterpNearest:
		scaleNearest(dst, src)
	case InterpBilinear:
		s.scaleBilinear(dst, src)
	default:
		return fmt.Errorf("image: unsupported interpolation mode %d", s.mode)
	}
	return nil
}

// ScaleNearest is a convenience wrapper running a nearest-sample scale.
func ScaleNearest(dst, src *ImageBuf) error {
	return NewScaler(InterpNearest).Scale(dst, src)
}

// ScaleBilinear is a convenience wrapper running a bilinear scale.
func ScaleBilinear(dst, src *ImageBuf) error {
	return NewScaler(InterpBilinear).Scale(dst, src)
}

func checkScale(dst, src *ImageBuf) error {
	if dst == nil || src == nil {
		return ErrInvalidDimensions
	}
	if src.format != FormatRGB8 {
		return fmt.Errorf("%w: source must be %v, got %v", ErrInvalidFormat, FormatRGB8, src.format)
	}
	if !dst.format.HasPadding() {
		return fmt.Errorf("%w: destination must be a 4-byte format, got %v", ErrInvalidFormat, dst.format)
	}
	if src.width <= 0 || src.height <= 0 || dst.width <= 0 || dst.height <= 0 {
		return ErrInvalidDimensions
	}
	return nil
}

// scaleNearest walks each destination row with a fixed-point column
// accumulator. Rows are mapped directly with an integer division.
func scaleNearest(dst, src *ImageBuf) {
	sw, sh := src.width, src.height
	dw, dh := dst.width, dst.height
	info := dst.format.Info()
	ro, gOff, bo := info.Red, info.Green, info.Blue

	dx := (sw << fracBits) / dw
	start := sw / dw
	last := sw - 1

	for y := range dh {
		sy := y * sh / dh
		srow := src.data[sy*src.stride : sy*src.stride+3*sw]
		drow := dst.data[y*dst.stride : y*dst.stride+4*dw]

		acc := start
		for o := 0; o < len(drow); o += 4 {
			sx := acc >> fracBits
			if sx > last {
				sx = last
			}
			p := srow[sx*3 : sx*3+3]
			drow[o+ro] = p[0]
			drow[o+gOff] = p[1]
			drow[o+bo] = p[2]
			acc += dx
		}
	}
}

// columns builds the per-column table for a frame of width dw.
// The horizontal mapping does not depend on the row, so it is computed once.
func (s *Scaler) columns(sw, dw int) []colWeight {
	if cap(s.cols) < dw {
		s.cols = make([]colWeight, dw)
	}
	cols := s.cols[:dw]

	dx := (sw << fracBits) / dw
	acc := sw / dw
	last := sw - 1
	for x := range cols {
		base := acc >> fracBits
		if base > last {
			base = last
		}
		next := base + 1
		if next > last {
			next = last
		}
		cols[x] = colWeight{off: base * 3, next: next * 3, frac: uint32(acc & fracMask)} //nolint:gosec // masked to 10 bits
		acc += dx
	}
	return cols
}

// scaleBilinear blends the four samples around each fixed-point position.
// Row baseY+1 and column baseX+1 are clamped to the last valid row and
// column so the bottom and right edges never read outside src.
func (s *Scaler) scaleBilinear(dst, src *ImageBuf) {
	sw, sh := src.width, src.height
	dw, dh := dst.width, dst.height
	info := dst.format.Info()
	ro, gOff, bo := info.Red, info.Green, info.Blue

	cols := s.columns(sw, dw)
	lastRow := sh - 1
	rowBytes := 3 * sw

	for y := range dh {
		fy := (y << fracBits) * sh / dh
		by := fy >> fracBits
		ny := by + 1
		if ny > lastRow {
			ny = lastRow
		}
		v := uint32(fy & fracMask) //nolint:gosec // masked to 10 bits
		vr := fracOne - v

		r0 := src.data[by*src.stride : by*src.stride+rowBytes]
		r1 := src.data[ny*src.stride : ny*src.stride+rowBytes]
		drow := dst.data[y*dst.stride : y*dst.stride+4*dw]

		for x, c := range cols {
			u := c.frac
			ur := fracOne - u
			a0 := r0[c.off : c.off+3]
			a1 := r0[c.next : c.next+3]
			b0 := r1[c.off : c.off+3]
			b1 := r1[c.next : c.next+3]

			o := x * 4
			drow[o+ro] = blend(a0[0], a1[0], b0[0], b1[0], u, ur, v, vr)
			drow[o+gOff] = blend(a0[1], a1[1], b0[1], b1[1], u, ur, v, vr)
			drow[o+bo] = blend(a0[2], a1[2], b0[2], b1[2], u, ur, v, vr)
		}
	}
}

// blend mixes one channel of four samples. The weights are 10-bit fractions
// whose products sum to 1<<20, so the result always fits in a byte.
func blend(p00, p01, p10, p11 uint8, u, ur, v, vr uint32) uint8 {
	top := uint32(p00)*ur + uint32(p01)*u
	bottom := uint32(p10)*ur + uint32(p11)*u
	return uint8((top*vr + bottom*v) >> (2 * fracBits)) //nolint:gosec // weights sum to 1<<20
}
