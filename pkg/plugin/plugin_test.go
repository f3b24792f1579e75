package plugin

import (
	"testing"

	"github.com/go-wups/wupf/pkg/errors"
	"github.com/go-wups/wupf/pkg/gamepad"
	"github.com/go-wups/wupf/pkg/handler"
	"github.com/go-wups/wupf/pkg/hooks"
)

// lcProbe implements only the lifecycle contract.
type lcProbe struct {
	mark     int
	calls    []string
	sessions int
}

func (p *lcProbe) OnDeinit() { p.calls = append(p.calls, "deinit") }
func (p *lcProbe) OnStart()  { p.calls = append(p.calls, "start"); p.sessions++ }
func (p *lcProbe) OnExit()   { p.calls = append(p.calls, "exit") }

// updProbe adds the per-frame contract.
type updProbe struct {
	updates int
}

func (p *updProbe) OnDeinit() {}
func (p *updProbe) OnStart()  {}
func (p *updProbe) OnExit()   {}
func (p *updProbe) OnUpdate() { p.updates++ }

// inProbe adds the input interception contract.
type inProbe struct {
	ports    []gamepad.Port
	calls    int
	suppress gamepad.Button
}

func (p *inProbe) OnDeinit() {}
func (p *inProbe) OnStart()  {}
func (p *inProbe) OnExit()   {}
func (p *inProbe) OnInput(port gamepad.Port, state gamepad.State) gamepad.State {
	p.calls++
	p.ports = append(p.ports, port)
	return state.Without(p.suppress)
}

// fullProbe implements every contract.
type fullProbe struct{}

func (p *fullProbe) OnDeinit() {}
func (p *fullProbe) OnStart()  {}
func (p *fullProbe) OnExit()   {}
func (p *fullProbe) OnUpdate() {}
func (p *fullProbe) OnInput(port gamepad.Port, state gamepad.State) gamepad.State {
	return state
}

// panicProbe panics on its first start only.
type panicProbe struct {
	started int
}

func (p *panicProbe) OnDeinit() {}
func (p *panicProbe) OnStart() {
	p.started++
	if p.started == 1 {
		panic("first start goes down")
	}
}
func (p *panicProbe) OnExit() {}

func TestBindLifecycleOnlyVariant(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() lcProbe { return lcProbe{} })

	for _, e := range hooks.Events() {
		if got := tbl.Bound(e); got != 1 {
			t.Errorf("Bound(%s) = %d, want 1", e, got)
		}
	}
	if tbl.Chained(hooks.FuncVPADRead) != 0 || tbl.Chained(hooks.FuncKPADReadEx) != 0 {
		t.Error("lifecycle-only plugin must not chain input trampolines")
	}
	if tbl.Chained(hooks.FuncGX2SwapScanBuffers) != 0 {
		t.Error("lifecycle-only plugin must not chain a frame trampoline")
	}
}

func TestBindUpdateVariant(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() updProbe { return updProbe{} })

	if got := tbl.Chained(hooks.FuncGX2SwapScanBuffers); got != 1 {
		t.Errorf("Chained(frame) = %d, want 1", got)
	}
	if tbl.Chained(hooks.FuncVPADRead) != 0 {
		t.Error("update variant must not chain input trampolines")
	}
}

func TestBindInputVariant(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() inProbe { return inProbe{} })

	if got := tbl.Chained(hooks.FuncVPADRead); got != 1 {
		t.Errorf("Chained(vpad) = %d, want 1", got)
	}
	if got := tbl.Chained(hooks.FuncKPADReadEx); got != 1 {
		t.Errorf("Chained(kpad) = %d, want 1", got)
	}
	if tbl.Chained(hooks.FuncGX2SwapScanBuffers) != 0 {
		t.Error("input variant must not chain a frame trampoline")
	}
}

func TestBindFullVariant(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() fullProbe { return fullProbe{} })

	if tbl.Chained(hooks.FuncVPADRead) != 1 ||
		tbl.Chained(hooks.FuncKPADReadEx) != 1 ||
		tbl.Chained(hooks.FuncGX2SwapScanBuffers) != 1 {
		t.Error("full variant should chain input and frame trampolines")
	}
}

func TestLifecycleFlow(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	constructed := 0
	Bind(tbl, func() lcProbe {
		constructed++
		return lcProbe{mark: constructed}
	})

	h := handler.For[lcProbe]()
	if h.Initialized() {
		t.Fatal("state must not exist before the init slot fires")
	}

	tbl.Dispatch(hooks.InitPlugin)
	if !h.Initialized() {
		t.Fatal("init slot should construct the state")
	}

	// Two full application sessions, then unload.
	tbl.Dispatch(hooks.ApplicationStarts)
	tbl.Dispatch(hooks.ApplicationRequestsExit)
	tbl.Dispatch(hooks.ApplicationStarts)
	tbl.Dispatch(hooks.ApplicationRequestsExit)
	tbl.Dispatch(hooks.DeinitPlugin)

	g := h.Acquire()
	defer g.Release()
	p := g.State()

	want := []string{"start", "exit", "start", "exit", "deinit"}
	if len(p.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", p.calls, want)
	}
	for i := range want {
		if p.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, p.calls[i], want[i])
		}
	}
	if p.sessions != 2 {
		t.Errorf("sessions = %d, want 2 (state must persist across sessions)", p.sessions)
	}
	if constructed != 1 {
		t.Errorf("construct ran %d times, want 1", constructed)
	}
}

func TestRepeatInitIgnored(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	constructed := 0
	Bind(tbl, func() lcProbe {
		constructed++
		return lcProbe{mark: constructed}
	})

	tbl.Dispatch(hooks.InitPlugin)
	tbl.Dispatch(hooks.InitPlugin)

	// The repeat constructs and discards; the first value stays.
	if constructed != 2 {
		t.Errorf("construct ran %d times, want 2", constructed)
	}
	g := handler.For[lcProbe]().Acquire()
	defer g.Release()
	if got := g.State().mark; got != 1 {
		t.Errorf("state mark = %d, want the first construction's 1", got)
	}
}

func TestCallbackBeforeInitIsReportedNotFatal(t *testing.T) {
	handler.ResetForTest()

	var captured *errors.PanicError
	errors.SetHandler(&captureHandler{onPanic: func(e *errors.PanicError) { captured = e }})
	defer errors.SetHandler(nil)

	tbl := hooks.NewTable()
	Bind(tbl, func() lcProbe { return lcProbe{} })

	// The host promises init-first; violating that must be loud but must
	// not take the host down.
	tbl.Dispatch(hooks.ApplicationStarts)

	if captured == nil {
		t.Fatal("expected the contract violation to be reported")
	}
	perr, ok := captured.Value.(*errors.PluginError)
	if !ok {
		t.Fatalf("panic value = %T, want *errors.PluginError", captured.Value)
	}
	if perr.Kind != errors.KindContract {
		t.Errorf("Kind = %v, want KindContract", perr.Kind)
	}

	// Recovery must leave the table fully usable.
	tbl.Dispatch(hooks.InitPlugin)
	tbl.Dispatch(hooks.ApplicationStarts)
	g := handler.For[lcProbe]().Acquire()
	defer g.Release()
	if g.State().sessions != 1 {
		t.Error("dispatch after a recovered violation should work normally")
	}
}

func TestInputMaskSuppressesButtons(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() inProbe { return inProbe{suppress: gamepad.ButtonHome} })
	tbl.Dispatch(hooks.InitPlugin)

	wrapped := tbl.WrapVPADRead(func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
		status[0] = gamepad.VPADStatus{
			Hold:    gamepad.VPADButtonA | gamepad.VPADButtonHome,
			Trigger: gamepad.VPADButtonHome,
		}
		*err = gamepad.VPADReadSuccess
		return 1
	})

	status := make([]gamepad.VPADStatus, 1)
	var rerr gamepad.VPADReadError
	if got := wrapped(gamepad.VPADChan0, status, &rerr); got != 1 {
		t.Errorf("wrapped status = %d, want 1", got)
	}

	if status[0].Hold != gamepad.VPADButtonA {
		t.Errorf("Hold = %#x, want only A after Home suppression", status[0].Hold)
	}
	if status[0].Trigger != 0 {
		t.Errorf("Trigger = %#x, want 0 after Home suppression", status[0].Trigger)
	}
}

func TestInputMergeIsAnd(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	// The callback answers with B|X|Y regardless of input; against a hold of
	// A|X|Y only the intersection X|Y may survive.
	Bind(tbl, func() maskProbe { return maskProbe{} })
	tbl.Dispatch(hooks.InitPlugin)

	wrapped := tbl.WrapVPADRead(func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
		status[0].Hold = gamepad.VPADButtonA | gamepad.VPADButtonX | gamepad.VPADButtonY
		*err = gamepad.VPADReadSuccess
		return 0
	})

	status := make([]gamepad.VPADStatus, 1)
	var rerr gamepad.VPADReadError
	wrapped(gamepad.VPADChan0, status, &rerr)

	want := gamepad.VPADButtonX | gamepad.VPADButtonY
	if status[0].Hold != want {
		t.Errorf("Hold = %#x, want %#x (AND of buffer and returned state)", status[0].Hold, want)
	}
}

func TestInputErrorShortCircuits(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() inProbe { return inProbe{suppress: gamepad.ButtonHome} })
	tbl.Dispatch(hooks.InitPlugin)

	garbage := gamepad.VPADStatus{
		Hold:    gamepad.VPADButtonHome | gamepad.VPADButtonA,
		Trigger: 0xDEAD,
		Release: 0xBEEF,
	}
	wrapped := tbl.WrapVPADRead(func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
		status[0] = garbage
		*err = gamepad.VPADReadNoSamples
		return -1
	})

	status := make([]gamepad.VPADStatus, 1)
	var rerr gamepad.VPADReadError
	if got := wrapped(gamepad.VPADChan0, status, &rerr); got != -1 {
		t.Errorf("wrapped status = %d, want the original's -1", got)
	}

	if status[0] != garbage {
		t.Errorf("buffer = %+v, want untouched %+v on a failed read", status[0], garbage)
	}

	g := handler.For[inProbe]().Acquire()
	defer g.Release()
	if g.State().calls != 0 {
		t.Errorf("OnInput ran %d times on a failed read, want 0", g.State().calls)
	}
}

func TestInputEmptyBufferSkipsCallback(t *testing.T) {
	handler.ResetForTest()

	var reported *errors.PluginError
	errors.SetHandler(&captureHandler{onError: func(e *errors.PluginError) { reported = e }})
	defer errors.SetHandler(nil)

	tbl := hooks.NewTable()
	Bind(tbl, func() inProbe { return inProbe{} })
	tbl.Dispatch(hooks.InitPlugin)

	wrapped := tbl.WrapVPADRead(func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
		*err = gamepad.VPADReadSuccess
		return 0
	})
	var rerr gamepad.VPADReadError
	wrapped(gamepad.VPADChan0, nil, &rerr)

	g := handler.For[inProbe]().Acquire()
	defer g.Release()
	if g.State().calls != 0 {
		t.Error("OnInput must not run without a sample")
	}
	if reported == nil || reported.Kind != errors.KindInput {
		t.Errorf("reported = %+v, want a KindInput anomaly", reported)
	}
}

func TestInputBothFamiliesOnePath(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() inProbe { return inProbe{suppress: gamepad.ButtonHome} })
	tbl.Dispatch(hooks.InitPlugin)

	vpad := tbl.WrapVPADRead(func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
		status[0].Hold = gamepad.VPADButtonA
		*err = gamepad.VPADReadSuccess
		return 0
	})
	kpad := tbl.WrapKPADRead(func(ch gamepad.WPADChannel, status []gamepad.KPADStatus, err *gamepad.KPADError) int32 {
		status[0].Hold = gamepad.KPADButtonHome | gamepad.KPADButtonA
		*err = gamepad.KPADErrorOK
		return 0
	})

	var rerr gamepad.VPADReadError
	vpad(gamepad.VPADChan0, make([]gamepad.VPADStatus, 1), &rerr)

	kstatus := make([]gamepad.KPADStatus, 1)
	var kerr gamepad.KPADError
	kpad(gamepad.WPADChan1, kstatus, &kerr)

	if kstatus[0].Hold != gamepad.KPADButtonA {
		t.Errorf("KPAD Hold = %#x, want Home suppressed on the wpad family too", kstatus[0].Hold)
	}

	g := handler.For[inProbe]().Acquire()
	defer g.Release()
	p := g.State()
	if p.calls != 2 {
		t.Fatalf("OnInput ran %d times, want 2 (one per family)", p.calls)
	}
	if p.ports[0] != gamepad.PortDRC {
		t.Errorf("first port = %v, want DRC", p.ports[0])
	}
	if p.ports[1] != gamepad.PortWPAD1 {
		t.Errorf("second port = %v, want WPAD1", p.ports[1])
	}
}

func TestUpdateRunsAfterEachSwap(t *testing.T) {
	handler.ResetForTest()
	tbl := hooks.NewTable()

	Bind(tbl, func() updProbe { return updProbe{} })
	tbl.Dispatch(hooks.InitPlugin)

	swaps := 0
	wrapped := tbl.WrapSwapBuffers(func() { swaps++ })
	wrapped()
	wrapped()
	wrapped()

	g := handler.For[updProbe]().Acquire()
	defer g.Release()
	if got := g.State().updates; got != 3 {
		t.Errorf("updates = %d, want 3", got)
	}
	if swaps != 3 {
		t.Errorf("original swap ran %d times, want 3", swaps)
	}
}

func TestPanicInCallbackDoesNotPoisonState(t *testing.T) {
	handler.ResetForTest()
	errors.SetHandler(&captureHandler{})
	defer errors.SetHandler(nil)

	tbl := hooks.NewTable()
	Bind(tbl, func() panicProbe { return panicProbe{} })

	tbl.Dispatch(hooks.InitPlugin)
	tbl.Dispatch(hooks.ApplicationStarts)
	tbl.Dispatch(hooks.ApplicationStarts)

	g := handler.For[panicProbe]().Acquire()
	defer g.Release()
	if got := g.State().started; got != 2 {
		t.Errorf("started = %d, want 2 (the cell must stay usable after a panic)", got)
	}
}

func TestBindValidation(t *testing.T) {
	handler.ResetForTest()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Bind with nil table should panic")
			}
		}()
		Bind[lcProbe](nil, func() lcProbe { return lcProbe{} })
	}()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Bind with nil construct should panic")
			}
		}()
		Bind[lcProbe](hooks.NewTable(), nil)
	}()
}

// maskProbe answers a fixed state to make the AND property observable.
type maskProbe struct{}

func (p *maskProbe) OnDeinit() {}
func (p *maskProbe) OnStart()  {}
func (p *maskProbe) OnExit()   {}
func (p *maskProbe) OnInput(port gamepad.Port, state gamepad.State) gamepad.State {
	return gamepad.State{Hold: gamepad.ButtonB | gamepad.ButtonX | gamepad.ButtonY}
}

type captureHandler struct {
	onError func(*errors.PluginError)
	onPanic func(*errors.PanicError)
}

func (h *captureHandler) HandleError(err *errors.PluginError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *captureHandler) HandlePanic(err *errors.PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
