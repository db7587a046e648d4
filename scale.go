package ggview

import (
	intImage "github.com/gogpu/ggview/internal/image"
)

// InterpolationMode selects how the image is resampled to the window size.
type InterpolationMode = intImage.InterpolationMode

// Resampling modes.
const (
	// InterpNearest copies the nearest source pixel.
	// Fast but produces blocky results when scaling up.
	InterpNearest = intImage.InterpNearest

	// InterpBilinear blends the 4 neighboring source pixels in fixed point.
	// This is the default.
	InterpBilinear = intImage.InterpBilinear
)

// ParseInterpolation parses "nearest" or "bilinear". An empty string selects
// bilinear.
func ParseInterpolation(s string) (InterpolationMode, error) {
	return intImage.ParseInterpolation(s)
}
