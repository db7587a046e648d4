// Package ggview provides a minimal image viewer.
//
// # Overview
//
// ggview shows one image of a file list at a time, scaled to fill the
// window. The user steps forwards and backwards through the list, reloads
// the current file, or prints its name. Files that cannot be opened or
// decoded are skipped.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ggview"
//	    "github.com/gogpu/ggview/input"
//	    "github.com/gogpu/ggview/surface"
//	)
//
//	host, err := surface.NewHost(surface.Config{Width: 800, Height: 600})
//	if err != nil {
//	    return err
//	}
//	v, err := ggview.NewViewer(files, host)
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
//	q := input.NewQueue()
//	err = host.Run(q, func() error { return v.Pump(q) })
//	if errors.Is(err, ggview.ErrQuit) {
//	    err = nil
//	}
//
// # Architecture
//
// The module is organized into:
//   - Public API: Viewer, Cursor, State, options and logging
//   - format: probe registry and decoder backends
//   - input: events, key bindings and the event queue
//   - surface: destination buffers, hosts and the host registry
//   - internal/image: pixel buffers and the fixed-point resampler
//   - backend/ebiten: the windowed host
//
// # Redraw states
//
// A Viewer starts in ResizePending. Resize and Expose events schedule a
// render, or a load when no image is loaded. Navigation discards the image
// and schedules a load. Each step performs one load or one render and
// ends in Idle once a frame has been presented.
package ggview

// Version information
const (
	// Version is the current version of the module
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
