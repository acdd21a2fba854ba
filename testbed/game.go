package testbed

import (
	"github.com/spaghettifunk/landan/engine"
	"github.com/spaghettifunk/landan/engine/core"
)

type TestGame struct {
	*engine.Application
}

type gameState struct {
	// Quit after this many milliseconds; 0 runs until the window closes.
	runForMS float64

	elapsedMS float64
	updates   uint64
	renders   uint64
	width     uint32
	height    uint32
	lastFPSAt float64
}

// NewTestGame builds the windowed demo.
func NewTestGame(runForMS float64) *TestGame {
	tg := &TestGame{
		Application: engine.NewWindowedApplication("Landan Testbed"),
	}
	tg.State = &gameState{runForMS: runForMS}

	tg.FnConfigure = tg.Configure
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnDestroy = tg.Destroy

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Configure(config *engine.ApplicationConfig) error {
	if config.Window.Title == "" {
		config.Window.Title = "Landan Testbed"
	}
	return nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	state.updates++
	state.elapsedMS += deltaTime

	if state.elapsedMS-state.lastFPSAt >= 1000 {
		state.lastFPSAt = state.elapsedMS
		m := g.Metrics()
		core.LogInfo("testbed: %.1f fps, %.2f ms/frame, %d frames", m.FPS, m.AverageFrameMS, m.Frames)
	}

	if state.runForMS > 0 && state.elapsedMS >= state.runForMS {
		core.LogInfo("testbed: ran for %.0f ms, quitting", state.elapsedMS)
		g.Quit()
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	g.state().renders++
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Destroy() error {
	state := g.state()
	core.LogInfo("testbed destroyed after %d updates and %d renders", state.updates, state.renders)
	return nil
}
