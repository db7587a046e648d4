package ggview

import (
	"io"
	"os"

	"github.com/gogpu/ggview/format"
	"github.com/gogpu/ggview/input"
)

// Option configures a Viewer during creation.
//
// Example:
//
//	// Default bilinear scaling, default formats, filenames printed to stdout
//	v, err := ggview.NewViewer(files, host)
//
//	// Nearest-neighbour scaling and a custom key binding
//	km := input.DefaultKeymap()
//	km.Bind(gpucontext.KeyJ, input.CmdForward)
//	v, err := ggview.NewViewer(files, host,
//	    ggview.WithScaler(ggview.InterpNearest),
//	    ggview.WithKeymap(km))
type Option func(*viewerOptions)

// viewerOptions holds optional configuration for Viewer creation.
type viewerOptions struct {
	mode     InterpolationMode
	keymap   input.Keymap
	out      io.Writer
	registry *format.Registry
}

// defaultOptions returns the default viewer options.
func defaultOptions() viewerOptions {
	return viewerOptions{
		mode:   InterpBilinear,
		keymap: nil, // DefaultKeymap
		out:    os.Stdout,
	}
}

// WithScaler selects the resampling algorithm. The default is bilinear.
func WithScaler(mode InterpolationMode) Option {
	return func(o *viewerOptions) {
		o.mode = mode
	}
}

// WithKeymap replaces the default key bindings.
func WithKeymap(km input.Keymap) Option {
	return func(o *viewerOptions) {
		o.keymap = km
	}
}

// WithOutput sets the writer file names are printed to. The default is
// standard output.
func WithOutput(w io.Writer) Option {
	return func(o *viewerOptions) {
		o.out = w
	}
}

// WithRegistry sets the format registry used to open files. The default is
// format.Default().
func WithRegistry(r *format.Registry) Option {
	return func(o *viewerOptions) {
		o.registry = r
	}
}
