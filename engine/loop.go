package engine

import (
	"fmt"

	"github.com/spaghettifunk/landan/engine/core"
)

// How long a suspended (minimized) application sleeps between message pumps.
const suspendedSleepMS = 50

type frameFunc func(deltaTime float64) error

// Run drives the application with the configured update policy until the
// quit flag is raised.
func (e *Engine) Run() error {
	if err := e.expectStage("run", EngineStagePrepared); err != nil {
		return err
	}
	e.currentStage = EngineStageRunning

	frame := e.basicFrame
	if e.app.kind == ApplicationTypeWindowed {
		frame = e.windowedFrame
	}

	updateType := e.Config().UpdateType
	e.log.Info("entering run loop", "application", e.app.Name, "update", updateType)

	switch updateType {
	// The program runs once and exits normally
	case UpdateTypeRunOnce:
		return e.runOnce(frame)
	// Runs until the application quits, at most FrameRate updates per second
	case UpdateTypeFramerateLimited:
		return e.runLimited(frame)
	// Runs until the application quits, as fast as possible
	case UpdateTypeFramerateUnlimited:
		return e.runUnlimited(frame)
	default:
		e.log.Error("Update Type is not a known type.", "update", updateType)
		return fmt.Errorf("%w: %s", core.ErrUnknownUpdateType, updateType)
	}
}

func (e *Engine) basicFrame(delta float64) error {
	if err := e.app.FnUpdate(delta); err != nil {
		e.log.Error("Application update failed, shutting down.", "err", err)
		return err
	}
	return nil
}

func (e *Engine) windowedFrame(delta float64) error {
	if err := e.basicFrame(delta); err != nil {
		return err
	}
	if e.app.FnRender == nil {
		return nil
	}
	if err := e.app.FnRender(delta); err != nil {
		e.log.Error("Application render failed, shutting down.", "err", err)
		return err
	}
	e.window.Present()
	return nil
}

func (e *Engine) runOnce(frame frameFunc) error {
	// No timing needed for a single pass.
	if !e.pumpMessages() {
		return nil
	}
	return frame(0)
}

func (e *Engine) runLimited(frame frameFunc) error {
	targetMS := e.getTargetFrameMS()
	// Start one frame in the past so the first update happens immediately.
	lastTime := e.clock.Milliseconds() - targetMS

	for !e.quitFlag.Raised() {
		if !e.pumpMessages() {
			continue
		}
		targetMS = e.getTargetFrameMS()

		currentTime := e.clock.Milliseconds()
		if e.resumed {
			e.resumed = false
			lastTime = currentTime - targetMS
		}
		deltaTime := core.ClampMin(currentTime-lastTime, 0)

		if deltaTime < targetMS {
			e.clock.Sleep(targetMS - deltaTime)
			continue
		}
		if err := frame(deltaTime); err != nil {
			return err
		}
		e.metrics.Update(deltaTime)
		lastTime = currentTime
	}
	return nil
}

func (e *Engine) runUnlimited(frame frameFunc) error {
	lastTime := e.clock.Milliseconds()

	for !e.quitFlag.Raised() {
		if !e.pumpMessages() {
			continue
		}

		currentTime := e.clock.Milliseconds()
		if e.resumed {
			e.resumed = false
			lastTime = currentTime
		}
		deltaTime := core.ClampMin(currentTime-lastTime, 0)

		if err := frame(deltaTime); err != nil {
			return err
		}
		e.metrics.Update(deltaTime)
		lastTime = currentTime
	}
	return nil
}

// pumpMessages drains the window messages. It reports whether a frame
// should be delivered in this iteration.
func (e *Engine) pumpMessages() bool {
	if e.window == nil {
		return true
	}
	if !e.window.PumpMessages() {
		e.quitFlag.Raise()
		return false
	}
	if e.quitFlag.Raised() {
		return false
	}
	if e.isSuspended {
		e.clock.Sleep(suspendedSleepMS)
		return false
	}
	return true
}
