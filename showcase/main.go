// Command showcase is a demo plugin that exercises the framework end to end:
// lifecycle callbacks, persistent storage, notifications, frame updates and
// input interception, driven through a simulated host session.
//
// The plugin counts application sessions across runs and blocks the HOME
// button while an application is active.
package main

import (
	"github.com/go-wups/wupf/pkg/gamepad"
	"github.com/go-wups/wupf/pkg/hooks"
	"github.com/go-wups/wupf/pkg/hosttest"
	"github.com/go-wups/wupf/pkg/logger"
	"github.com/go-wups/wupf/pkg/notify"
	"github.com/go-wups/wupf/pkg/plugin"
	"github.com/go-wups/wupf/pkg/storage"
)

const storageDir = "storage"

// counter is the plugin state. The framework constructs it once on load and
// hands it to every callback under the plugin lock.
type counter struct {
	store       *storage.Store
	sessions    int
	frames      int
	homeBlocked int
}

func newCounter() counter {
	logger.Console()

	store, err := storage.Open(storageDir, "session-counter")
	if err != nil {
		l := logger.L()
		l.Error().Err(err).Msg("persistent storage unavailable")
	}

	c := counter{store: store}
	if store != nil {
		c.sessions, _ = store.GetInt("sessions")
	}

	l := logger.L()
	l.Info().Int("sessions", c.sessions).Msg("session-counter loaded")
	return c
}

func (c *counter) OnStart() {
	c.sessions++
	c.frames = 0
	if c.store != nil {
		c.store.Set("sessions", c.sessions)
	}

	notify.Postf("session %d started", c.sessions)
	l := logger.L()
	l.Info().Int("session", c.sessions).Msg("application started")
}

func (c *counter) OnExit() {
	if c.store != nil {
		if err := c.store.Save(); err != nil {
			logger.L().Error().Err(err).Msg("failed to persist session count")
		}
	}
	logger.L().Info().
		Int("session", c.sessions).
		Int("frames", c.frames).
		Int("home_blocked", c.homeBlocked).
		Msg("application exiting")
}

func (c *counter) OnDeinit() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			logger.L().Error().Err(err).Msg("failed to close store")
		}
	}
	logger.L().Info().Int("sessions", c.sessions).Msg("session-counter unloading")
	logger.Deinit()
}

// OnUpdate runs once per frame while an application is in the foreground.
func (c *counter) OnUpdate() {
	c.frames++
}

// OnInput clears the HOME button from every sample so the application never
// sees it. All other input passes through unchanged.
func (c *counter) OnInput(port gamepad.Port, state gamepad.State) gamepad.State {
	if state.Held(gamepad.ButtonHome) {
		c.homeBlocked++
		logger.L().Debug().Stringer("port", port).Msg("blocked HOME press")
		return state.Without(gamepad.ButtonHome)
	}
	return state
}

func main() {
	plugin.Register(newCounter)
	notify.Attach(hooks.Default, consoleSink{})

	// Drive a scripted session the way the loader would. On a real host the
	// hooks in hooks.Default would be bound to loader slots instead.
	host := hosttest.New(hooks.Default)
	host.Load()
	host.StartApplication()
	host.Frame()

	// The application polls the gamepad; HOME is held on the second read.
	host.QueueVPAD(hosttest.VPADSample{
		Status: gamepad.VPADStatus{Hold: gamepad.VPADButtonA},
	})
	host.QueueVPAD(hosttest.VPADSample{
		Status: gamepad.VPADStatus{Hold: gamepad.VPADButtonA | gamepad.VPADButtonHome},
	})

	for range 2 {
		buf, readErr, _ := host.ReadVPAD(gamepad.VPADChan0, 1)
		if !readErr.Ok() || len(buf) == 0 {
			continue
		}
		logger.L().Info().
			Bool("a", buf[0].Hold&gamepad.VPADButtonA != 0).
			Bool("home", buf[0].Hold&gamepad.VPADButtonHome != 0).
			Msg("application saw input")
		host.Frame()
	}

	host.ExitApplication()

	// A second session shows the persisted counter advancing.
	host.StartApplication()
	host.Frame()
	host.ExitApplication()

	host.Unload()
}
