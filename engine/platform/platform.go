package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/landan/engine/core"
	"github.com/spaghettifunk/landan/engine/window"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Platform is the GLFW implementation of window.Backend.
type Platform struct {
	native      *glfw.Window
	owner       *window.Window
	initialized bool
}

var (
	_ window.Backend       = (*Platform)(nil)
	_ window.BufferSwapper = (*Platform)(nil)
)

func New() *Platform {
	return &Platform{}
}

func (p *Platform) Init() error {
	if p.initialized {
		return nil
	}
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}
	p.initialized = true
	return nil
}

func (p *Platform) Create(w *window.Window, renderType window.RenderType) error {
	if p.native != nil {
		return window.ErrAlreadyCreated
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	switch renderType {
	case window.RenderTypeOpenGL:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	default:
		// The surface is owned by whoever renders into the window.
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}

	var monitor *glfw.Monitor
	switch w.Type() {
	case window.TypeBorderless:
		glfw.WindowHint(glfw.Decorated, glfw.False)
	case window.TypeFullscreen:
		monitor = glfw.GetPrimaryMonitor()
	}

	width, height := w.Size()
	native, err := glfw.CreateWindow(int(width), int(height), w.Title(), monitor, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		return fmt.Errorf("glfw create window: %w", err)
	}
	if renderType == window.RenderTypeOpenGL {
		native.MakeContextCurrent()
	}

	p.native = native
	p.owner = w

	native.SetSizeCallback(p.sizeCallback)
	native.SetPosCallback(p.posCallback)
	native.SetCloseCallback(p.closeCallback)
	native.SetIconifyCallback(p.iconifyCallback)
	native.SetMaximizeCallback(p.maximizeCallback)

	if monitor == nil {
		x, y := w.Position()
		native.SetPos(int(x), int(y))
	}
	native.Show()

	return nil
}

func (p *Platform) PumpMessages() bool {
	if p.native == nil {
		return false
	}
	glfw.PollEvents()
	return !p.native.ShouldClose()
}

// SwapBuffers presents the back buffer of an OpenGL window.
func (p *Platform) SwapBuffers() {
	if p.native != nil {
		p.native.SwapBuffers()
	}
}

func (p *Platform) Destroy(w *window.Window) error {
	if p.native == nil || p.owner != w {
		return window.ErrNotCreated
	}
	p.native.Destroy()
	p.native = nil
	p.owner = nil
	return nil
}

func (p *Platform) Terminate() error {
	if !p.initialized {
		return nil
	}
	glfw.Terminate()
	p.initialized = false
	return nil
}

func (p *Platform) resizeState() window.ResizeState {
	switch {
	case p.native.GetAttrib(glfw.Iconified) == glfw.True:
		return window.ResizeMinimized
	case p.native.GetAttrib(glfw.Maximized) == glfw.True:
		return window.ResizeMaximized
	}
	return window.ResizeRestored
}

func (p *Platform) dispatch(msg window.Message) {
	if p.owner == nil {
		return
	}
	p.owner.Dispatch(msg)
}

func (p *Platform) sizeCallback(w *glfw.Window, width, height int) {
	p.dispatch(window.ResizeMessage(uint32(width), uint32(height), p.resizeState()))
}

func (p *Platform) posCallback(w *glfw.Window, xpos, ypos int) {
	p.dispatch(window.MoveMessage(int32(xpos), int32(ypos)))
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.dispatch(window.CloseMessage())
}

func (p *Platform) iconifyCallback(w *glfw.Window, iconified bool) {
	width, height := w.GetSize()
	state := window.ResizeRestored
	if iconified {
		state = window.ResizeMinimized
	}
	p.dispatch(window.ResizeMessage(uint32(width), uint32(height), state))
}

func (p *Platform) maximizeCallback(w *glfw.Window, maximized bool) {
	width, height := w.GetSize()
	state := window.ResizeRestored
	if maximized {
		state = window.ResizeMaximized
	}
	p.dispatch(window.ResizeMessage(uint32(width), uint32(height), state))
}
