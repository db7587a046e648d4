// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface connects the viewer to a window system.
//
// A Surface is a window-sized pixel buffer with four bytes per pixel and an
// explicit row stride. The viewer resamples the current image into it and
// hands it to a Presenter, which shows it on screen.
//
// # Hosts
//
// A Host is a Presenter that also owns the event loop. It translates
// window-system events into input events and calls back into the viewer
// once per loop iteration:
//
//	q := input.NewQueue()
//	err := host.Run(q, func() error {
//	    return viewer.Pump(q)
//	})
//
// The package ships a Headless host that keeps frames in memory. It is
// used in tests and when no display is reachable.
//
// # Registry
//
// Hosts register themselves by name and priority. Windowed hosts live in
// their own packages and register from init:
//
//	import _ "github.com/gogpu/ggview/backend/ebiten"
//
//	h, err := surface.NewHost(surface.Config{Width: 800, Height: 600})
//
// NewHost picks the available host with the highest priority.
// NewHostByName selects one explicitly.
package surface
