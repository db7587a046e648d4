package ebiten

import (
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// events holds the callbacks registered through gpucontext.EventSource.
// Ebitengine has no IME composition API, so the IME callbacks are stored but
// never fired.
type events struct {
	mu sync.Mutex

	keyPress    func(gpucontext.Key, gpucontext.Modifiers)
	keyRelease  func(gpucontext.Key, gpucontext.Modifiers)
	textInput   func(string)
	mouseMove   func(x, y float64)
	mousePress  func(gpucontext.MouseButton, float64, float64)
	mouseRel    func(gpucontext.MouseButton, float64, float64)
	scroll      func(dx, dy float64)
	resize      func(width, height int)
	focus       func(bool)
	imeStart    func()
	imeUpdate   func(gpucontext.IMEState)
	imeEnd      func(string)
	keys        []ebiten.Key
	chars       []rune
	cursorX     int
	cursorY     int
	cursorKnown bool
}

var _ gpucontext.EventSource = (*events)(nil)

func (e *events) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	e.mu.Lock()
	e.keyPress = fn
	e.mu.Unlock()
}

func (e *events) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	e.mu.Lock()
	e.keyRelease = fn
	e.mu.Unlock()
}

func (e *events) OnTextInput(fn func(string)) {
	e.mu.Lock()
	e.textInput = fn
	e.mu.Unlock()
}

func (e *events) OnMouseMove(fn func(x, y float64)) {
	e.mu.Lock()
	e.mouseMove = fn
	e.mu.Unlock()
}

func (e *events) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	e.mu.Lock()
	e.mousePress = fn
	e.mu.Unlock()
}

func (e *events) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	e.mu.Lock()
	e.mouseRel = fn
	e.mu.Unlock()
}

func (e *events) OnScroll(fn func(dx, dy float64)) {
	e.mu.Lock()
	e.scroll = fn
	e.mu.Unlock()
}

func (e *events) OnResize(fn func(width, height int)) {
	e.mu.Lock()
	e.resize = fn
	e.mu.Unlock()
}

func (e *events) OnFocus(fn func(bool)) {
	e.mu.Lock()
	e.focus = fn
	e.mu.Unlock()
}

func (e *events) OnIMECompositionStart(fn func()) {
	e.mu.Lock()
	e.imeStart = fn
	e.mu.Unlock()
}

func (e *events) OnIMECompositionUpdate(fn func(gpucontext.IMEState)) {
	e.mu.Lock()
	e.imeUpdate = fn
	e.mu.Unlock()
}

func (e *events) OnIMECompositionEnd(fn func(string)) {
	e.mu.Lock()
	e.imeEnd = fn
	e.mu.Unlock()
}

// mouseButtons maps the buttons reported to OnMousePress and OnMouseRelease.
var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	gc gpucontext.MouseButton
}{
	{ebiten.MouseButtonLeft, gpucontext.MouseButtonLeft},
	{ebiten.MouseButtonRight, gpucontext.MouseButtonRight},
	{ebiten.MouseButtonMiddle, gpucontext.MouseButtonMiddle},
}

// poll reads this tick's input state and fires the registered callbacks.
// It runs on the game goroutine.
func (e *events) poll() {
	e.mu.Lock()
	keyPress, keyRelease := e.keyPress, e.keyRelease
	textInput, mouseMove := e.textInput, e.mouseMove
	mousePress, mouseRel, scroll := e.mousePress, e.mouseRel, e.scroll
	e.mu.Unlock()

	mods := modifiers()
	if keyPress != nil {
		e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
		for _, k := range e.keys {
			if key, ok := translateKey(k); ok {
				keyPress(key, mods)
			}
		}
	}
	if keyRelease != nil {
		e.keys = inpututil.AppendJustReleasedKeys(e.keys[:0])
		for _, k := range e.keys {
			if key, ok := translateKey(k); ok {
				keyRelease(key, mods)
			}
		}
	}
	if textInput != nil {
		if e.chars = ebiten.AppendInputChars(e.chars[:0]); len(e.chars) > 0 {
			textInput(string(e.chars))
		}
	}

	x, y := ebiten.CursorPosition()
	moved := !e.cursorKnown || x != e.cursorX || y != e.cursorY
	e.cursorX, e.cursorY, e.cursorKnown = x, y, true
	if moved && mouseMove != nil {
		mouseMove(float64(x), float64(y))
	}
	for _, b := range mouseButtons {
		if mousePress != nil && inpututil.IsMouseButtonJustPressed(b.eb) {
			mousePress(b.gc, float64(x), float64(y))
		}
		if mouseRel != nil && inpututil.IsMouseButtonJustReleased(b.eb) {
			mouseRel(b.gc, float64(x), float64(y))
		}
	}
	if dx, dy := ebiten.Wheel(); scroll != nil && (dx != 0 || dy != 0) {
		scroll(dx, -dy)
	}
}

// resized fires the resize callback.
func (e *events) resized(width, height int) {
	e.mu.Lock()
	fn := e.resize
	e.mu.Unlock()
	if fn != nil {
		fn(width, height)
	}
}

// focused fires the focus callback.
func (e *events) focused(f bool) {
	e.mu.Lock()
	fn := e.focus
	e.mu.Unlock()
	if fn != nil {
		fn(f)
	}
}
