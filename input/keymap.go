package input

import "github.com/gogpu/gpucontext"

// Keymap binds keys to commands. Modifiers are ignored.
type Keymap map[gpucontext.Key]Cmd

// DefaultKeymap returns the standard bindings:
//
//	Escape, Q                          quit
//	T, Right, Space, PageDown          next file
//	N, Left, Backspace, PageUp         previous file
//	R                                  reload
//	Enter                              print file name
func DefaultKeymap() Keymap {
	return Keymap{
		gpucontext.KeyEscape: CmdQuit,
		gpucontext.KeyQ:      CmdQuit,

		gpucontext.KeyT:        CmdForward,
		gpucontext.KeyRight:    CmdForward,
		gpucontext.KeySpace:    CmdForward,
		gpucontext.KeyPageDown: CmdForward,

		gpucontext.KeyN:         CmdBackward,
		gpucontext.KeyLeft:      CmdBackward,
		gpucontext.KeyBackspace: CmdBackward,
		gpucontext.KeyPageUp:    CmdBackward,

		gpucontext.KeyR: CmdReload,

		gpucontext.KeyEnter: CmdPrint,
	}
}

// Lookup returns the command bound to key, or CmdNone.
func (m Keymap) Lookup(key gpucontext.Key) Cmd {
	return m[key]
}

// Bind binds key to cmd, replacing any previous binding.
// Binding CmdNone removes the key.
func (m Keymap) Bind(key gpucontext.Key, cmd Cmd) {
	if cmd == CmdNone {
		delete(m, key)
		return
	}
	m[key] = cmd
}
