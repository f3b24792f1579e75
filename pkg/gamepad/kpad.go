package gamepad

// WPADChannel identifies a Wii remote channel on the host.
type WPADChannel int32

const (
	WPADChan0 WPADChannel = 0
	WPADChan1 WPADChannel = 1
	WPADChan2 WPADChannel = 2
	WPADChan3 WPADChannel = 3
)

// PortFromWPAD maps a Wii remote channel to its port.
func PortFromWPAD(ch WPADChannel) Port {
	switch ch {
	case WPADChan0:
		return PortWPAD0
	case WPADChan1:
		return PortWPAD1
	case WPADChan2:
		return PortWPAD2
	case WPADChan3:
		return PortWPAD3
	default:
		return PortUnknown
	}
}

// KPADButton is the host's native Wii remote button bitfield (core profile).
type KPADButton uint32

const (
	KPADButtonLeft  KPADButton = 0x0001
	KPADButtonRight KPADButton = 0x0002
	KPADButtonDown  KPADButton = 0x0004
	KPADButtonUp    KPADButton = 0x0008
	KPADButtonPlus  KPADButton = 0x0010
	KPADButton2     KPADButton = 0x0100
	KPADButton1     KPADButton = 0x0200
	KPADButtonB     KPADButton = 0x0400
	KPADButtonA     KPADButton = 0x0800
	KPADButtonMinus KPADButton = 0x1000
	KPADButtonZ     KPADButton = 0x2000
	KPADButtonC     KPADButton = 0x4000
	KPADButtonHome  KPADButton = 0x8000
)

var kpadButtons = []struct {
	native KPADButton
	norm   Button
}{
	{KPADButtonLeft, ButtonLeft},
	{KPADButtonRight, ButtonRight},
	{KPADButtonDown, ButtonDown},
	{KPADButtonUp, ButtonUp},
	{KPADButtonPlus, ButtonPlus},
	{KPADButton2, Button2},
	{KPADButton1, Button1},
	{KPADButtonB, ButtonB},
	{KPADButtonA, ButtonA},
	{KPADButtonMinus, ButtonMinus},
	{KPADButtonZ, ButtonZ},
	{KPADButtonC, ButtonC},
	{KPADButtonHome, ButtonHome},
}

var kpadKnownMask = func() KPADButton {
	var m KPADButton
	for _, e := range kpadButtons {
		m |= e.native
	}
	return m
}()

// KPADStatus is one Wii remote sample, core profile only. Extension
// controller payloads are not modeled and are never touched by the merge.
type KPADStatus struct {
	Hold    KPADButton
	Trigger KPADButton
	Release KPADButton
}

// KPADError is the host's Wii remote read status.
type KPADError int32

const (
	KPADErrorOK                KPADError = 0
	KPADErrorNoSamples         KPADError = -1
	KPADErrorInvalidController KPADError = -2
	KPADErrorWPADUninit        KPADError = -3
	KPADErrorBusy              KPADError = -4
)

// Ok reports whether the read produced usable samples.
func (e KPADError) Ok() bool {
	return e == KPADErrorOK
}

func (e KPADError) String() string {
	switch e {
	case KPADErrorOK:
		return "ok"
	case KPADErrorNoSamples:
		return "no samples"
	case KPADErrorInvalidController:
		return "invalid controller"
	case KPADErrorWPADUninit:
		return "wpad uninitialized"
	case KPADErrorBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// StateFromKPAD normalizes a native Wii remote sample.
func StateFromKPAD(s KPADStatus) State {
	return State{
		Hold:    buttonsFromKPAD(s.Hold),
		Trigger: buttonsFromKPAD(s.Trigger),
		Release: buttonsFromKPAD(s.Release),
	}
}

// Mask merges a callback's returned state back into the native sample,
// with the same AND semantics as VPADStatus.Mask.
func (s *KPADStatus) Mask(st State) {
	s.Hold &= kpadBits(st.Hold) | ^kpadKnownMask
	s.Trigger &= kpadBits(st.Trigger) | ^kpadKnownMask
	s.Release &= kpadBits(st.Release) | ^kpadKnownMask
}

func buttonsFromKPAD(bits KPADButton) Button {
	var b Button
	for _, e := range kpadButtons {
		if bits&e.native != 0 {
			b |= e.norm
		}
	}
	return b
}

func kpadBits(b Button) KPADButton {
	var bits KPADButton
	for _, e := range kpadButtons {
		if b&e.norm != 0 {
			bits |= e.native
		}
	}
	return bits
}
