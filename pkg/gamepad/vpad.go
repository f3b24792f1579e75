package gamepad

// VPADChannel identifies a gamepad channel on the host.
type VPADChannel int32

const (
	VPADChan0 VPADChannel = 0
	VPADChan1 VPADChannel = 1
)

// VPADButton is the host's native gamepad button bitfield.
type VPADButton uint32

const (
	VPADButtonSync   VPADButton = 0x00000001
	VPADButtonHome   VPADButton = 0x00000002
	VPADButtonMinus  VPADButton = 0x00000004
	VPADButtonPlus   VPADButton = 0x00000008
	VPADButtonR      VPADButton = 0x00000010
	VPADButtonL      VPADButton = 0x00000020
	VPADButtonZR     VPADButton = 0x00000040
	VPADButtonZL     VPADButton = 0x00000080
	VPADButtonDown   VPADButton = 0x00000100
	VPADButtonUp     VPADButton = 0x00000200
	VPADButtonRight  VPADButton = 0x00000400
	VPADButtonLeft   VPADButton = 0x00000800
	VPADButtonY      VPADButton = 0x00001000
	VPADButtonX      VPADButton = 0x00002000
	VPADButtonB      VPADButton = 0x00004000
	VPADButtonA      VPADButton = 0x00008000
	VPADButtonTV     VPADButton = 0x00010000
	VPADButtonStickR VPADButton = 0x00020000
	VPADButtonStickL VPADButton = 0x00040000
)

var vpadButtons = []struct {
	native VPADButton
	norm   Button
}{
	{VPADButtonA, ButtonA},
	{VPADButtonB, ButtonB},
	{VPADButtonX, ButtonX},
	{VPADButtonY, ButtonY},
	{VPADButtonLeft, ButtonLeft},
	{VPADButtonRight, ButtonRight},
	{VPADButtonUp, ButtonUp},
	{VPADButtonDown, ButtonDown},
	{VPADButtonZL, ButtonZL},
	{VPADButtonZR, ButtonZR},
	{VPADButtonL, ButtonL},
	{VPADButtonR, ButtonR},
	{VPADButtonPlus, ButtonPlus},
	{VPADButtonMinus, ButtonMinus},
	{VPADButtonHome, ButtonHome},
	{VPADButtonSync, ButtonSync},
	{VPADButtonStickL, ButtonStickL},
	{VPADButtonStickR, ButtonStickR},
	{VPADButtonTV, ButtonTV},
}

// vpadKnownMask covers the native bits the normalized set can express.
// Bits outside it are untouched by Mask.
var vpadKnownMask = func() VPADButton {
	var m VPADButton
	for _, e := range vpadButtons {
		m |= e.native
	}
	return m
}()

// Stick is an analog stick position in the host's -1..1 range.
type Stick struct {
	X float32
	Y float32
}

// VPADStatus is one gamepad sample as the host lays it out. Only the fields
// the framework reads and merges are modeled; index 0 of a read buffer is the
// newest sample.
type VPADStatus struct {
	Hold       VPADButton
	Trigger    VPADButton
	Release    VPADButton
	LeftStick  Stick
	RightStick Stick
}

// VPADReadError is the host's gamepad read status.
type VPADReadError int32

const (
	VPADReadSuccess           VPADReadError = 0
	VPADReadNoSamples         VPADReadError = -1
	VPADReadInvalidController VPADReadError = -2
	VPADReadBusy              VPADReadError = -4
)

// Ok reports whether the read produced usable samples.
func (e VPADReadError) Ok() bool {
	return e == VPADReadSuccess
}

func (e VPADReadError) String() string {
	switch e {
	case VPADReadSuccess:
		return "success"
	case VPADReadNoSamples:
		return "no samples"
	case VPADReadInvalidController:
		return "invalid controller"
	case VPADReadBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// StateFromVPAD normalizes a native gamepad sample.
func StateFromVPAD(s VPADStatus) State {
	return State{
		Hold:    buttonsFromVPAD(s.Hold),
		Trigger: buttonsFromVPAD(s.Trigger),
		Release: buttonsFromVPAD(s.Release),
	}
}

// Mask merges a callback's returned state back into the native sample.
// Each button field is ANDed with the returned state, so the merge can clear
// bits but never set them. Native bits outside the mapped set survive.
func (s *VPADStatus) Mask(st State) {
	s.Hold &= vpadBits(st.Hold) | ^vpadKnownMask
	s.Trigger &= vpadBits(st.Trigger) | ^vpadKnownMask
	s.Release &= vpadBits(st.Release) | ^vpadKnownMask
}

func buttonsFromVPAD(bits VPADButton) Button {
	var b Button
	for _, e := range vpadButtons {
		if bits&e.native != 0 {
			b |= e.norm
		}
	}
	return b
}

func vpadBits(b Button) VPADButton {
	var bits VPADButton
	for _, e := range vpadButtons {
		if b&e.norm != 0 {
			bits |= e.native
		}
	}
	return bits
}
