package ebiten

import (
	"github.com/gogpu/gpucontext"
	"github.com/hajimehoshi/ebiten/v2"
)

// keyTable maps Ebitengine keys to gogpu keys. Keys without a gogpu
// counterpart are absent.
var keyTable = map[ebiten.Key]gpucontext.Key{
	ebiten.KeyA: gpucontext.KeyA,
	ebiten.KeyB: gpucontext.KeyB,
	ebiten.KeyC: gpucontext.KeyC,
	ebiten.KeyD: gpucontext.KeyD,
	ebiten.KeyE: gpucontext.KeyE,
	ebiten.KeyF: gpucontext.KeyF,
	ebiten.KeyG: gpucontext.KeyG,
	ebiten.KeyH: gpucontext.KeyH,
	ebiten.KeyI: gpucontext.KeyI,
	ebiten.KeyJ: gpucontext.KeyJ,
	ebiten.KeyK: gpucontext.KeyK,
	ebiten.KeyL: gpucontext.KeyL,
	ebiten.KeyM: gpucontext.KeyM,
	ebiten.KeyN: gpucontext.KeyN,
	ebiten.KeyO: gpucontext.KeyO,
	ebiten.KeyP: gpucontext.KeyP,
	ebiten.KeyQ: gpucontext.KeyQ,
	ebiten.KeyR: gpucontext.KeyR,
	ebiten.KeyS: gpucontext.KeyS,
	ebiten.KeyT: gpucontext.KeyT,
	ebiten.KeyU: gpucontext.KeyU,
	ebiten.KeyV: gpucontext.KeyV,
	ebiten.KeyW: gpucontext.KeyW,
	ebiten.KeyX: gpucontext.KeyX,
	ebiten.KeyY: gpucontext.KeyY,
	ebiten.KeyZ: gpucontext.KeyZ,

	ebiten.KeyDigit0: gpucontext.Key0,
	ebiten.KeyDigit1: gpucontext.Key1,
	ebiten.KeyDigit2: gpucontext.Key2,
	ebiten.KeyDigit3: gpucontext.Key3,
	ebiten.KeyDigit4: gpucontext.Key4,
	ebiten.KeyDigit5: gpucontext.Key5,
	ebiten.KeyDigit6: gpucontext.Key6,
	ebiten.KeyDigit7: gpucontext.Key7,
	ebiten.KeyDigit8: gpucontext.Key8,
	ebiten.KeyDigit9: gpucontext.Key9,

	ebiten.KeyF1:  gpucontext.KeyF1,
	ebiten.KeyF2:  gpucontext.KeyF2,
	ebiten.KeyF3:  gpucontext.KeyF3,
	ebiten.KeyF4:  gpucontext.KeyF4,
	ebiten.KeyF5:  gpucontext.KeyF5,
	ebiten.KeyF6:  gpucontext.KeyF6,
	ebiten.KeyF7:  gpucontext.KeyF7,
	ebiten.KeyF8:  gpucontext.KeyF8,
	ebiten.KeyF9:  gpucontext.KeyF9,
	ebiten.KeyF10: gpucontext.KeyF10,
	ebiten.KeyF11: gpucontext.KeyF11,
	ebiten.KeyF12: gpucontext.KeyF12,

	ebiten.KeyEscape:      gpucontext.KeyEscape,
	ebiten.KeyTab:         gpucontext.KeyTab,
	ebiten.KeyBackspace:   gpucontext.KeyBackspace,
	ebiten.KeyEnter:       gpucontext.KeyEnter,
	ebiten.KeyNumpadEnter: gpucontext.KeyNumpadEnter,
	ebiten.KeySpace:       gpucontext.KeySpace,
	ebiten.KeyInsert:      gpucontext.KeyInsert,
	ebiten.KeyDelete:      gpucontext.KeyDelete,
	ebiten.KeyHome:        gpucontext.KeyHome,
	ebiten.KeyEnd:         gpucontext.KeyEnd,
	ebiten.KeyPageUp:      gpucontext.KeyPageUp,
	ebiten.KeyPageDown:    gpucontext.KeyPageDown,

	ebiten.KeyArrowLeft:  gpucontext.KeyLeft,
	ebiten.KeyArrowRight: gpucontext.KeyRight,
	ebiten.KeyArrowUp:    gpucontext.KeyUp,
	ebiten.KeyArrowDown:  gpucontext.KeyDown,
}

// translateKey returns the gogpu key for k.
func translateKey(k ebiten.Key) (gpucontext.Key, bool) {
	key, ok := keyTable[k]
	return key, ok
}

// modifiers returns the modifier keys held down right now.
func modifiers() gpucontext.Modifiers {
	var mods gpucontext.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= gpucontext.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= gpucontext.ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= gpucontext.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= gpucontext.ModSuper
	}
	return mods
}
