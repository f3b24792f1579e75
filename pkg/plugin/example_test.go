package plugin_test

import (
	"github.com/go-wups/wupf/pkg/gamepad"
	"github.com/go-wups/wupf/pkg/hooks"
	"github.com/go-wups/wupf/pkg/logger"
	"github.com/go-wups/wupf/pkg/plugin"
)

// greeter is a minimal plugin: constructed on load, notified of lifecycle
// transitions, torn down on unload.
type greeter struct {
	sessions int
}

func newGreeter() greeter {
	logger.Console()
	return greeter{}
}

func (g *greeter) OnStart()  { g.sessions++ }
func (g *greeter) OnExit()   {}
func (g *greeter) OnDeinit() { logger.Deinit() }

// This example shows the smallest complete plugin: a state type, a
// constructor, and registration against the default hook table.
func ExampleRegister() {
	plugin.Register(newGreeter)

	// The host fires the hooks; nothing else is required of the plugin.
	hooks.Default.Dispatch(hooks.InitPlugin)
	hooks.Default.Dispatch(hooks.ApplicationStarts)
	hooks.Default.Dispatch(hooks.ApplicationRequestsExit)
	hooks.Default.Dispatch(hooks.DeinitPlugin)
}

// blocker suppresses the HOME button from every gamepad sample.
type blocker struct{}

func newBlocker() blocker { return blocker{} }

func (b *blocker) OnStart()  {}
func (b *blocker) OnExit()   {}
func (b *blocker) OnDeinit() {}

// OnInput may clear buttons, never add them. Anything it removes is
// invisible to the running application.
func (b *blocker) OnInput(port gamepad.Port, state gamepad.State) gamepad.State {
	return state.Without(gamepad.ButtonHome)
}

// This example shows input interception. Implementing InputHandler is enough;
// registration wires the plugin into both controller read chains.
func ExampleRegister_inputInterception() {
	plugin.Register(newBlocker)
}

// This example wires a plugin into a private hook table instead of the
// process-wide default, which keeps tests independent of each other.
func ExampleBind() {
	table := hooks.NewTable()
	plugin.Bind(table, newGreeter)

	table.Dispatch(hooks.InitPlugin)
	table.Dispatch(hooks.DeinitPlugin)
}
