package window

import (
	"fmt"
	"strings"
)

// Type selects the window decoration / screen mode.
type Type uint8

const (
	TypeWindowed Type = iota
	TypeBorderless
	TypeFullscreen
)

var typeNames = map[Type]string{
	TypeWindowed:   "windowed",
	TypeBorderless: "borderless",
	TypeFullscreen: "fullscreen",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("unknown window type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range typeNames {
		if v == s {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown window type %q", text)
}

// State is the current presentation of the window.
type State uint8

const (
	StateNormal State = iota
	StateMinimized
	StateMaximized
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ResizeState accompanies a resize message. The values follow the native
// size request codes.
type ResizeState uint8

const (
	ResizeRestored ResizeState = iota
	ResizeMinimized
	ResizeMaximized
	// Another window was restored.
	ResizeMaxShow
	// Another window was maximized.
	ResizeMaxHide
)

func (r ResizeState) String() string {
	switch r {
	case ResizeRestored:
		return "restored"
	case ResizeMinimized:
		return "minimized"
	case ResizeMaximized:
		return "maximized"
	case ResizeMaxShow:
		return "maxshow"
	case ResizeMaxHide:
		return "maxhide"
	}
	return fmt.Sprintf("ResizeState(%d)", uint8(r))
}

// RenderType is the kind of surface the window is asked to provide.
type RenderType uint8

const (
	RenderTypeNone RenderType = iota
	RenderTypeSoftware
	RenderTypeOpenGL
	RenderTypeDirectX11
)

var renderTypeNames = map[RenderType]string{
	RenderTypeNone:      "none",
	RenderTypeSoftware:  "software",
	RenderTypeOpenGL:    "opengl",
	RenderTypeDirectX11: "directx11",
}

func (r RenderType) String() string {
	if n, ok := renderTypeNames[r]; ok {
		return n
	}
	return fmt.Sprintf("RenderType(%d)", uint8(r))
}

func (r RenderType) Valid() bool {
	_, ok := renderTypeNames[r]
	return ok
}

func (r RenderType) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown render type %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *RenderType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range renderTypeNames {
		if v == s {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown render type %q", text)
}
