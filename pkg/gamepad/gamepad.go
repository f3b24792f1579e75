// Package gamepad defines the input types shared between the host's
// controller read functions and plugin input callbacks.
//
// The host exposes two controller families with different native button
// layouts: the DRC gamepad (vpad) and Wii remotes (wpad/kpad). Both are
// normalized into Button and State so a plugin implements a single input
// callback. Merging a callback's returned State back into a native record is
// a bitwise AND per field: a plugin can suppress buttons it was shown, never
// invent presses, and native bits outside the mapped set pass through
// untouched.
package gamepad

// Button is a normalized controller button bitfield.
type Button uint32

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLeft
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonZL
	ButtonZR
	ButtonL
	ButtonR
	ButtonPlus
	ButtonMinus
	ButtonHome
	ButtonSync
	ButtonStickL
	ButtonStickR
	ButtonTV
	Button1
	Button2
	ButtonC
	ButtonZ
)

// State is a normalized snapshot of one controller port.
// Hold carries the buttons currently down, Trigger the buttons that went
// down this sample, Release the buttons that went up this sample.
type State struct {
	Hold    Button
	Trigger Button
	Release Button
}

// Held reports whether all buttons in b are currently down.
func (s State) Held(b Button) bool {
	return s.Hold&b == b
}

// Triggered reports whether all buttons in b went down this sample.
func (s State) Triggered(b Button) bool {
	return s.Trigger&b == b
}

// Released reports whether all buttons in b went up this sample.
func (s State) Released(b Button) bool {
	return s.Release&b == b
}

// Without returns a copy of s with b cleared from every field.
// It is the usual way for an input callback to suppress buttons.
func (s State) Without(b Button) State {
	return State{
		Hold:    s.Hold &^ b,
		Trigger: s.Trigger &^ b,
		Release: s.Release &^ b,
	}
}

// Port identifies the controller a sample came from.
type Port int

const (
	// PortUnknown marks a sample whose source channel was out of range.
	PortUnknown Port = iota
	// PortDRC is the gamepad; there is exactly one per console.
	PortDRC
	PortWPAD0
	PortWPAD1
	PortWPAD2
	PortWPAD3
)

func (p Port) String() string {
	switch p {
	case PortDRC:
		return "DRC"
	case PortWPAD0:
		return "WPAD0"
	case PortWPAD1:
		return "WPAD1"
	case PortWPAD2:
		return "WPAD2"
	case PortWPAD3:
		return "WPAD3"
	default:
		return "unknown"
	}
}

// IsWPAD reports whether p is a Wii remote port.
func (p Port) IsWPAD() bool {
	return p >= PortWPAD0 && p <= PortWPAD3
}
