// Package ebiten provides a windowed host built on Ebitengine.
//
// # Registration and Selection
//
// The host registers itself as "ebiten" with priority 100 when the package
// is imported:
//
//	import _ "github.com/gogpu/ggview/backend/ebiten"
//
// It reports itself available when a display is reachable. On Linux that
// means DISPLAY or WAYLAND_DISPLAY is set; other platforms always have one.
// When it is unavailable, surface.NewHost falls back to the headless host.
//
// # Presentation
//
// Surfaces are tightly packed RGBA buffers whose alpha bytes are set to 0xFF
// once per buffer. The viewer writes colour bytes only, so every frame is
// opaque. Blit uploads the buffer to a texture that Draw copies to the
// screen.
//
// # Events
//
// Each tick of the game loop pushes:
//
//   - Resize when Layout reports a new window size
//   - Expose when the window regains focus
//   - Key for every key pressed since the previous tick
//
// and then calls the viewer's step function. An error from step ends
// RunGame and is returned from Run unchanged.
package ebiten
