package ggview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gogpu/ggview/format"
	"github.com/gogpu/ggview/input"
	intImage "github.com/gogpu/ggview/internal/image"
	"github.com/gogpu/ggview/surface"
)

// Viewer shows one image of a file list at a time, scaled to the window.
//
// A Viewer is driven by events from an input.Source. It does at most one
// unit of work per step: decode one file, or resample and present one frame.
// Events queued in the meantime are handled before the next step, so a
// quit typed during a slow decode is seen before the next decode starts.
//
// A Viewer is not safe for concurrent use. Hosts push events from any
// goroutine onto an input.Queue; only the goroutine running the viewer
// consumes them.
type Viewer struct {
	cursor    *Cursor
	registry  *format.Registry
	scaler    *intImage.Scaler
	keymap    input.Keymap
	out       io.Writer
	presenter surface.Presenter

	state         State
	width, height int

	// Current image. src aliases img.Pix.
	img *format.Image
	src *intImage.ImageBuf

	surf *surface.Surface

	// anchor is the cursor index a load cycle started at, or -1.
	anchor int

	closed bool
}

// Ensure Viewer implements io.Closer
var _ io.Closer = (*Viewer)(nil)

// NewViewer creates a viewer for files presented through p.
// The first file is shown first. No file is opened until the first step.
//
//	v, err := ggview.NewViewer(os.Args[1:], host, ggview.WithScaler(ggview.InterpNearest))
func NewViewer(files []string, p surface.Presenter, opts ...Option) (*Viewer, error) {
	if p == nil {
		return nil, errors.New("ggview: nil presenter")
	}
	cursor, err := NewCursor(files)
	if err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	registry := options.registry
	if registry == nil {
		registry = format.Default()
	}
	keymap := options.keymap
	if keymap == nil {
		keymap = input.DefaultKeymap()
	}
	out := options.out
	if out == nil {
		out = io.Discard
	}

	return &Viewer{
		cursor:    cursor,
		registry:  registry,
		scaler:    intImage.NewScaler(options.mode),
		keymap:    keymap,
		out:       out,
		presenter: p,
		state:     ResizePending,
		anchor:    -1,
	}, nil
}

// State returns the current redraw state.
func (v *Viewer) State() State {
	return v.state
}

// Current returns the file the cursor is on.
func (v *Viewer) Current() string {
	return v.cursor.Current()
}

// Image returns the loaded image, or nil.
func (v *Viewer) Image() *format.Image {
	return v.img
}

// Size returns the last window size reported by a Resize event.
func (v *Viewer) Size() (width, height int) {
	return v.width, v.height
}

// Handle applies one event. It returns ErrQuit for a quit command.
func (v *Viewer) Handle(ev input.Event) error {
	switch e := ev.(type) {
	case input.Resize:
		v.resize(max(e.Width, 0), max(e.Height, 0))
	case input.Expose:
		v.invalidate()
	case input.Key:
		if cmd := v.keymap.Lookup(e.Key); cmd != input.CmdNone {
			return v.command(cmd)
		}
	case input.Command:
		return v.command(e.Cmd)
	}
	return nil
}

func (v *Viewer) resize(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height
	v.releaseSurface()
	v.setState(ResizePending)
	if v.img != nil {
		v.presenter.SetAspect(v.img.SourceWidth, v.img.SourceHeight)
	}
	v.invalidate()
}

// invalidate schedules a render, or a load when nothing is loaded.
func (v *Viewer) invalidate() {
	if v.img != nil {
		v.setState(RenderPending)
	} else {
		v.setState(LoadPending)
	}
}

func (v *Viewer) command(cmd input.Cmd) error {
	switch cmd {
	case input.CmdQuit:
		return ErrQuit
	case input.CmdForward:
		v.navigate(Forward)
	case input.CmdBackward:
		v.navigate(Backward)
	case input.CmdReload:
		v.discard()
		v.anchor = -1
		v.setState(LoadPending)
	case input.CmdPrint:
		if _, err := fmt.Fprintln(v.out, v.cursor.Current()); err != nil {
			return fmt.Errorf("ggview: print: %w", err)
		}
	}
	return nil
}

func (v *Viewer) navigate(d Direction) {
	v.cursor.SetDirection(d)
	v.cursor.Advance()
	v.discard()
	v.anchor = -1
	v.setState(LoadPending)
}

// Run handles events from src and steps until a command or a step fails.
// While idle it blocks on src. Run returns ErrQuit when the user quits,
// ErrNoValidImages when no file can be shown, nil when src is closed, and
// ctx.Err() when ctx is done.
func (v *Viewer) Run(ctx context.Context, src input.Source) error {
	for {
		if err := v.drain(ctx, src, true); err != nil {
			if errors.Is(err, input.ErrClosed) {
				return nil
			}
			return err
		}
		if err := v.step(); err != nil {
			return err
		}
	}
}

// Pump handles the events already queued on src and then performs at most
// one step. It never blocks; frame-driven hosts call it once per frame.
func (v *Viewer) Pump(src input.Source) error {
	if err := v.drain(context.Background(), src, false); err != nil {
		return err
	}
	return v.step()
}

// drain handles queued events. With block set it waits for events as long
// as there is no pending work.
func (v *Viewer) drain(ctx context.Context, src input.Source, block bool) error {
	for {
		var ev input.Event
		if block && !v.state.pending() {
			var err error
			if ev, err = src.Next(ctx); err != nil {
				return err
			}
		} else {
			var ok bool
			if ev, ok = src.TryNext(); !ok {
				return nil
			}
		}
		if err := v.Handle(ev); err != nil {
			return err
		}
	}
}

// step performs one load or one render.
func (v *Viewer) step() error {
	switch v.state {
	case LoadPending:
		return v.load()
	case RenderPending:
		return v.render()
	}
	return nil
}

// load opens files from the cursor on until one is recognized, and decodes
// it. Files that fail to open or are not recognized are skipped within the
// same step. A file that fails to decode is skipped and the step ends, so
// queued events are handled before the next decode.
func (v *Viewer) load() error {
	if v.anchor < 0 {
		v.anchor = v.cursor.Index()
	}

	for {
		path := v.cursor.Current()
		img, err := v.registry.Open(path)
		if err != nil {
			Logger().Warn("ggview: skipping file", "path", path, "err", err)
			if err := v.skip(); err != nil {
				return err
			}
			continue
		}

		v.presenter.SetAspect(img.SourceWidth, img.SourceHeight)

		start := time.Now()
		if err := v.registry.Decode(img); err != nil {
			Logger().Warn("ggview: skipping file", "path", path, "err", err)
			return v.skip()
		}
		src, err := img.Buffer()
		if err != nil {
			Logger().Warn("ggview: skipping file", "path", path, "err", err)
			return v.skip()
		}

		v.img, v.src = img, src
		v.anchor = -1
		Logger().Info("ggview: image loaded",
			"path", path,
			"format", img.Backend.Name(),
			"width", img.SourceWidth,
			"height", img.SourceHeight,
			"elapsed", time.Since(start))
		v.setState(RenderPending)
		return nil
	}
}

// skip advances past a failed file. It returns ErrNoValidImages when the
// cursor is back where the load cycle started.
func (v *Viewer) skip() error {
	v.cursor.Advance()
	if v.cursor.Index() == v.anchor {
		v.anchor = -1
		v.setState(Idle)
		return ErrNoValidImages
	}
	return nil
}

// render resamples the loaded image into the surface and presents it.
func (v *Viewer) render() error {
	if v.width == 0 || v.height == 0 {
		v.setState(Idle)
		return nil
	}

	if v.surf == nil {
		s, err := v.presenter.NewSurface(v.width, v.height)
		if err != nil {
			return fmt.Errorf("ggview: surface %dx%d: %w", v.width, v.height, err)
		}
		v.surf = s
	}
	dst, err := v.surf.Buffer()
	if err != nil {
		return fmt.Errorf("ggview: surface: %w", err)
	}

	start := time.Now()
	if err := v.scaler.Scale(dst, v.src); err != nil {
		return fmt.Errorf("ggview: scale: %w", err)
	}
	Logger().Debug("ggview: resampled",
		"mode", v.scaler.Mode(),
		"src", fmt.Sprintf("%dx%d", v.src.Width(), v.src.Height()),
		"dst", fmt.Sprintf("%dx%d", v.width, v.height),
		"elapsed", time.Since(start))

	if err := v.presenter.Blit(v.surf); err != nil {
		return fmt.Errorf("ggview: blit: %w", err)
	}
	v.setState(Idle)
	return nil
}

func (v *Viewer) setState(s State) {
	if s == v.state {
		return
	}
	Logger().Debug("ggview: state", "from", v.state, "to", s)
	v.state = s
}

// discard drops the loaded image and the surface.
func (v *Viewer) discard() {
	if v.img != nil {
		_ = v.img.Close()
	}
	v.img, v.src = nil, nil
	v.releaseSurface()
}

func (v *Viewer) releaseSurface() {
	if v.surf != nil {
		v.presenter.Release(v.surf)
		v.surf = nil
	}
}

// Close releases the image and the surface.
// Close is idempotent.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.discard()
	return nil
}
