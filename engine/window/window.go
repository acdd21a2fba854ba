package window

import (
	"errors"
	"fmt"
)

var (
	ErrNoBackend      = errors.New("window has no backend")
	ErrAlreadyCreated = errors.New("window already created")
	ErrNotCreated     = errors.New("window not created")
)

// Handler receives the window notifications after the window has updated
// its own state.
type Handler interface {
	OnResize(width, height uint32, state ResizeState)
	OnMove(x, y int32)
	OnClose()
	OnDestroy()
}

// Backend creates native windows and translates their callbacks into
// Dispatch calls on the owning Window.
type Backend interface {
	// Init prepares the platform layer. Called once before Create.
	Init() error
	Create(w *Window, renderType RenderType) error
	// PumpMessages drains pending OS messages. Returns false once the OS
	// asked the window to close.
	PumpMessages() bool
	Destroy(w *Window) error
	Terminate() error
}

// BufferSwapper is implemented by backends that present OpenGL frames.
type BufferSwapper interface {
	SwapBuffers()
}

type Window struct {
	title  string
	x      int32
	y      int32
	width  uint32
	height uint32
	kind   Type
	state  State

	backend    Backend
	handler    Handler
	renderType RenderType
	created    bool
}

func New(title string, x, y int32, width, height uint32, kind Type, backend Backend) *Window {
	return &Window{
		title:   title,
		x:       x,
		y:       y,
		width:   width,
		height:  height,
		kind:    kind,
		state:   StateNormal,
		backend: backend,
	}
}

// Init creates the native window through the backend.
func (w *Window) Init(renderType RenderType) error {
	if w.backend == nil {
		return ErrNoBackend
	}
	if w.created {
		return ErrAlreadyCreated
	}
	if err := w.backend.Init(); err != nil {
		return fmt.Errorf("window backend init: %w", err)
	}
	if err := w.backend.Create(w, renderType); err != nil {
		err = fmt.Errorf("create window %q: %w", w.title, err)
		return errors.Join(err, w.backend.Terminate())
	}
	w.renderType = renderType
	w.created = true
	return nil
}

// Present shows the frame just rendered. Only OpenGL windows own a swap
// chain, and only when the backend can swap buffers.
func (w *Window) Present() {
	if !w.created || w.renderType != RenderTypeOpenGL {
		return
	}
	if s, ok := w.backend.(BufferSwapper); ok {
		s.SwapBuffers()
	}
}

// Destroy releases the native window. The handler sees OnDestroy.
func (w *Window) Destroy() error {
	if !w.created {
		return ErrNotCreated
	}
	w.created = false
	if err := w.backend.Destroy(w); err != nil {
		return err
	}
	w.Dispatch(DestroyMessage())
	return w.backend.Terminate()
}

func (w *Window) PumpMessages() bool {
	if !w.created {
		return false
	}
	return w.backend.PumpMessages()
}

func (w *Window) SetHandler(h Handler) {
	w.handler = h
}

// Dispatch routes a native message to the matching callback. It returns
// false for messages the window does not handle, leaving them to the
// platform's default processing.
func (w *Window) Dispatch(msg Message) bool {
	switch msg.Kind {
	case MessageResize:
		w.OnResize(msg.Width, msg.Height, msg.ResizeState)
	case MessageMove:
		w.OnMove(msg.X, msg.Y)
	case MessageClose:
		w.OnClose()
	case MessageDestroy:
		w.OnDestroy()
	default:
		return false
	}
	return true
}

func (w *Window) OnResize(width, height uint32, state ResizeState) {
	w.width = width
	w.height = height
	switch state {
	case ResizeRestored:
		w.state = StateNormal
	case ResizeMinimized:
		w.state = StateMinimized
	case ResizeMaximized:
		w.state = StateMaximized
	}
	if w.handler != nil {
		w.handler.OnResize(width, height, state)
	}
}

func (w *Window) OnMove(x, y int32) {
	w.x = x
	w.y = y
	if w.handler != nil {
		w.handler.OnMove(x, y)
	}
}

func (w *Window) OnClose() {
	if w.handler != nil {
		w.handler.OnClose()
	}
}

func (w *Window) OnDestroy() {
	if w.handler != nil {
		w.handler.OnDestroy()
	}
}

func (w *Window) Title() string { return w.title }
func (w *Window) Position() (int32, int32) { return w.x, w.y }
func (w *Window) Size() (uint32, uint32) { return w.width, w.height }
func (w *Window) Type() Type { return w.kind }
func (w *Window) State() State { return w.state }
func (w *Window) Created() bool { return w.created }
