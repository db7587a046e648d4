// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/ggview/input"
	"github.com/gogpu/ggview/internal/image"
)

// RowAlignment is the row alignment of headless surfaces in bytes.
// Rows are padded so the resampler is exercised with Stride > 4*Width.
const RowAlignment = 64

// HeadlessOption configures a Headless host.
type HeadlessOption func(*Headless)

// WithSize sets the window size reported at start-up. The default is 800×600.
func WithSize(width, height int) HeadlessOption {
	return func(h *Headless) {
		h.width, h.height = width, height
	}
}

// WithSnapshot writes the first blitted frame to path as PNG.
func WithSnapshot(path string) HeadlessOption {
	return func(h *Headless) {
		h.snapshot = path
	}
}

// WithFrameLimit pushes a quit command after n frames. Zero means never.
func WithFrameLimit(n int) HeadlessOption {
	return func(h *Headless) {
		h.frameLimit = n
	}
}

// WithTick sets how long Run waits for an event between steps while the
// queue is empty. The default is one 60 Hz frame.
func WithTick(d time.Duration) HeadlessOption {
	return func(h *Headless) {
		h.tick = d
	}
}

// WithEvents queues extra events after the initial resize and expose.
func WithEvents(events ...input.Event) HeadlessOption {
	return func(h *Headless) {
		h.script = append(h.script, events...)
	}
}

// Headless is a Host without a window. Frames are kept in memory.
type Headless struct {
	width, height int
	snapshot      string
	frameLimit    int
	tick          time.Duration
	script        []input.Event

	pool *image.Pool

	mu      sync.Mutex
	q       *input.Queue
	frames  int
	last    *image.ImageBuf
	aspectW int
	aspectH int
	live    int
}

// NewHeadless creates a headless host.
func NewHeadless(opts ...HeadlessOption) (*Headless, error) {
	h := &Headless{
		width:  800,
		height: 600,
		tick:   time.Second / 60,
		pool:   image.NewPool(2),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.width <= 0 || h.height <= 0 {
		return nil, fmt.Errorf("surface: headless size %dx%d: %w", h.width, h.height, image.ErrInvalidDimensions)
	}
	if h.tick <= 0 {
		return nil, fmt.Errorf("surface: headless tick %v must be positive", h.tick)
	}
	return h, nil
}

// NewSurface allocates a BGR surface with rows aligned to RowAlignment.
func (h *Headless) NewSurface(width, height int) (*Surface, error) {
	stride := alignUp(image.FormatBGRA8.RowBytes(width), RowAlignment)
	buf, err := h.pool.GetWithStride(width, height, image.FormatBGRA8, stride)
	if err != nil {
		return nil, fmt.Errorf("surface: allocate %dx%d: %w", width, height, err)
	}

	h.mu.Lock()
	h.live++
	h.mu.Unlock()

	return &Surface{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    buf.Data(),
		Order:  OrderBGR,
		buf:    buf,
	}, nil
}

// Release returns s to the buffer pool.
func (h *Headless) Release(s *Surface) {
	if s == nil {
		return
	}
	h.mu.Lock()
	h.live--
	h.mu.Unlock()
	h.pool.Put(s.buf)
}

// Blit records a copy of s as the latest frame.
func (h *Headless) Blit(s *Surface) error {
	buf, err := s.Buffer()
	if err != nil {
		return err
	}
	frame := buf.Clone()

	h.mu.Lock()
	h.frames++
	n := h.frames
	h.last = frame
	q := h.q
	h.mu.Unlock()

	if n == 1 && h.snapshot != "" {
		if err := frame.SavePNG(h.snapshot); err != nil {
			return fmt.Errorf("surface: snapshot: %w", err)
		}
	}
	if q != nil && h.frameLimit > 0 && n >= h.frameLimit {
		q.Push(input.Command{Cmd: input.CmdQuit})
	}
	return nil
}

// SetAspect records the aspect hint.
func (h *Headless) SetAspect(width, height int) {
	h.mu.Lock()
	h.aspectW, h.aspectH = width, height
	h.mu.Unlock()
}

// Run reports the configured size, requests an initial draw, queues the
// scripted events, then calls step until it fails. Between steps with an
// empty queue it waits for the next event for at most one tick, so an idle
// viewer costs one step per tick.
func (h *Headless) Run(q *input.Queue, step func() error) error {
	if q == nil {
		return errors.New("surface: headless run without a queue")
	}
	h.mu.Lock()
	h.q = q
	h.mu.Unlock()

	q.Push(input.Resize{Width: h.width, Height: h.height})
	q.Push(input.Expose{})
	for _, ev := range h.script {
		q.Push(ev)
	}

	for {
		if err := step(); err != nil {
			return err
		}
		if q.Pending() == 0 {
			h.wait(q)
		}
	}
}

// wait blocks until q has an event or one tick has passed.
func (h *Headless) wait(q *input.Queue) {
	ctx, cancel := context.WithTimeout(context.Background(), h.tick)
	defer cancel()
	if errors.Is(q.Wait(ctx), input.ErrClosed) {
		<-ctx.Done()
	}
}

// Frames returns the number of frames blitted so far.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// LastFrame returns a copy of the most recent frame, or nil.
func (h *Headless) LastFrame() *image.ImageBuf {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Aspect returns the last aspect hint.
func (h *Headless) Aspect() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aspectW, h.aspectH
}

// Live returns the number of surfaces handed out and not yet released.
func (h *Headless) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
