// Package input carries window-system events from a host to the viewer.
//
// Hosts translate their native events into [Event] values and push them onto
// a [Queue]. The viewer drains the queue between units of work. Key presses
// are turned into viewer commands through a [Keymap].
package input

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Event is a window-system event delivered to the viewer.
type Event interface {
	event()
}

// Resize reports the new client area of the window.
type Resize struct {
	Width, Height int
}

// Expose reports that the window contents were lost and must be redrawn.
type Expose struct{}

// Key reports a key press.
type Key struct {
	Key  gpucontext.Key
	Mods gpucontext.Modifiers
}

// Command asks the viewer to perform a command directly, bypassing the keymap.
type Command struct {
	Cmd Cmd
}

func (Resize) event()  {}
func (Expose) event()  {}
func (Key) event()     {}
func (Command) event() {}

// Cmd is a viewer command.
type Cmd uint8

const (
	// CmdNone means the key is not bound.
	CmdNone Cmd = iota

	// CmdQuit terminates the viewer.
	CmdQuit

	// CmdForward moves to the next file.
	CmdForward

	// CmdBackward moves to the previous file.
	CmdBackward

	// CmdReload decodes the current file again.
	CmdReload

	// CmdPrint writes the current file name to the control output.
	CmdPrint
)

// String returns a string representation of the command.
func (c Cmd) String() string {
	switch c {
	case CmdNone:
		return "None"
	case CmdQuit:
		return "Quit"
	case CmdForward:
		return "Forward"
	case CmdBackward:
		return "Backward"
	case CmdReload:
		return "Reload"
	case CmdPrint:
		return "Print"
	default:
		return fmt.Sprintf("Cmd(%d)", uint8(c))
	}
}
