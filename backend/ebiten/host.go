package ebiten

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/input"
	"github.com/gogpu/ggview/internal/image"
	"github.com/gogpu/ggview/surface"
)

// Name is the registry name of the host.
const Name = "ebiten"

// Priority is the registry priority of the host.
const Priority = 100

// init registers the ebiten host on package import.
func init() {
	surface.Register(Name, Priority, func(cfg surface.Config) (surface.Host, error) {
		return New(cfg)
	}, available)
}

// available reports whether a display is reachable.
func available() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// Host shows frames in an Ebitengine window. Its input is delivered through
// the gpucontext.EventSource callbacks.
type Host struct {
	events

	title         string
	width, height int
	pool          *image.Pool

	q    *input.Queue
	step func() error

	mu       sync.Mutex
	layoutW  int
	layoutH  int
	hasFocus bool
	tex      *ebiten.Image
}

var (
	_ surface.Host              = (*Host)(nil)
	_ gpucontext.WindowProvider = (*Host)(nil)
	_ gpucontext.EventSource    = (*Host)(nil)
)

// New creates a host for a window of the configured size. The window is
// opened by Run.
func New(cfg surface.Config) (*Host, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("ebiten: window size %dx%d: %w", cfg.Width, cfg.Height, image.ErrInvalidDimensions)
	}
	title := cfg.Title
	if title == "" {
		title = "ggview"
	}
	return &Host{
		title:  title,
		width:  cfg.Width,
		height: cfg.Height,
		pool:   image.NewPool(2),
	}, nil
}

// NewSurface allocates an opaque RGBA surface without row padding.
func (h *Host) NewSurface(width, height int) (*surface.Surface, error) {
	buf, err := h.pool.Get(width, height, image.FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("ebiten: allocate %dx%d: %w", width, height, err)
	}
	buf.FillPadding(0xFF)
	return surface.New(width, height, buf.Stride(), surface.OrderRGB, buf.Data())
}

// Release returns s to the buffer pool.
func (h *Host) Release(s *surface.Surface) {
	if s == nil {
		return
	}
	if buf, err := s.Buffer(); err == nil {
		h.pool.Put(buf)
	}
}

// Blit uploads s to the window texture. The texture is shown by the next
// Draw.
func (h *Host) Blit(s *surface.Surface) error {
	n := image.FormatRGBA8.ImageBytes(s.Width, s.Height)
	if s.Order != surface.OrderRGB || s.Stride != 4*s.Width || len(s.Pix) < n {
		return errors.New("ebiten: surface is not a packed RGBA buffer")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.tex != nil {
		if b := h.tex.Bounds(); b.Dx() != s.Width || b.Dy() != s.Height {
			h.tex.Deallocate()
			h.tex = nil
		}
	}
	if h.tex == nil {
		h.tex = ebiten.NewImage(s.Width, s.Height)
		ggview.Logger().Debug("ebiten: texture allocated", "width", s.Width, "height", s.Height)
	}
	h.tex.WritePixels(s.Pix[:n])
	return nil
}

// SetAspect resizes the window so its height follows the image aspect
// ratio at the current width. The window is kept on the monitor.
func (h *Host) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	ww, wh := ebiten.WindowSize()
	if ww <= 0 {
		return
	}
	nw, nh := snapAspect(ww, width, height)
	if _, mh := ebiten.Monitor().Size(); mh > 0 && nh > mh {
		nw, nh = mh*width/height, mh
	}
	if nw < 1 || nh < 1 || (nw == ww && nh == wh) {
		return
	}
	ebiten.SetWindowSize(nw, nh)
}

// snapAspect returns a window size of width ww with the aspect ratio of a
// width×height image.
func snapAspect(ww, width, height int) (int, int) {
	return ww, max(ww*height/width, 1)
}

// Size returns the window client area size reported by the last Layout.
func (h *Host) Size() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layoutW, h.layoutH
}

// ScaleFactor returns the device scale factor of the window's monitor.
func (h *Host) ScaleFactor() float64 {
	return ebiten.Monitor().DeviceScaleFactor()
}

// RequestRedraw asks the viewer to present the current image again.
func (h *Host) RequestRedraw() {
	if h.q != nil {
		h.q.Push(input.Expose{})
	}
}

// Run opens the window and runs the game loop until step fails or the
// window is closed. Closing the window is reported as ggview.ErrQuit.
func (h *Host) Run(q *input.Queue, step func() error) error {
	if q == nil {
		return errors.New("ebiten: run without a queue")
	}
	h.q, h.step = q, step
	input.Attach(h, q)

	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(h.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ggview.Logger().Info("ebiten: opening window", "width", h.width, "height", h.height)
	if err := ebiten.RunGame(&game{h: h}); err != nil {
		return err
	}
	return ggview.ErrQuit
}

// game adapts Host to ebiten.Game.
type game struct {
	h *Host
}

func (g *game) Update() error {
	h := g.h

	focused := ebiten.IsFocused()
	h.mu.Lock()
	changed := focused != h.hasFocus
	h.hasFocus = focused
	h.mu.Unlock()
	if changed {
		h.focused(focused)
	}

	h.poll()
	return h.step()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.h.mu.Lock()
	tex := g.h.tex
	g.h.mu.Unlock()
	if tex != nil {
		screen.DrawImage(tex, nil)
	}
}

// Layout keeps one logical pixel per window pixel and reports size changes.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	h := g.h
	h.mu.Lock()
	changed := outsideWidth != h.layoutW || outsideHeight != h.layoutH
	h.layoutW, h.layoutH = outsideWidth, outsideHeight
	h.mu.Unlock()
	if changed {
		h.resized(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
