package engine

import (
	"github.com/spaghettifunk/landan/engine/core"
)

// Application is what the Engine drives. The Fn hooks are optional except
// FnUpdate.
type Application struct {
	Name  string
	State interface{}

	FnConfigure  Configure
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnOnMove     OnMove
	FnDestroy    Destroy

	kind     ApplicationType
	quitFlag *core.QuitFlag
	metrics  *core.Metrics
}

// Configure may override any setting before the application is initialized.
type Configure func(config *ApplicationConfig) error
type Initialize func() error

// Update receives the milliseconds elapsed since the previous update.
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type OnMove func(x int32, y int32) error
type Destroy func() error

func NewBasicApplication(name string) *Application {
	return &Application{Name: name, kind: ApplicationTypeBasic}
}

func NewWindowedApplication(name string) *Application {
	return &Application{Name: name, kind: ApplicationTypeWindowed}
}

func (a *Application) Kind() ApplicationType {
	return a.kind
}

func (a *Application) applyQuitFlag(flag *core.QuitFlag) {
	a.quitFlag = flag
}

func (a *Application) applyMetrics(m *core.Metrics) {
	a.metrics = m
}

// Metrics reports the frame timings of the engine driving the application.
func (a *Application) Metrics() core.MetricsSnapshot {
	if a.metrics == nil {
		return core.MetricsSnapshot{}
	}
	return a.metrics.Snapshot()
}

// Quit asks the engine to leave the run loop after the current frame.
func (a *Application) Quit() {
	if a.quitFlag == nil {
		core.LogWarn("application %q asked to quit before the engine was initialized", a.Name)
		return
	}
	a.quitFlag.Raise()
}

func (a *Application) Quitting() bool {
	return a.quitFlag != nil && a.quitFlag.Raised()
}
