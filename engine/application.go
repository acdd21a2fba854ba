package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/landan/engine/core"
	"github.com/spaghettifunk/landan/engine/window"
)

const (
	DefaultFrameRate    float64 = 60
	DefaultWindowX      int32   = 100
	DefaultWindowY      int32   = 100
	DefaultWindowWidth  uint32  = 1280
	DefaultWindowHeight uint32  = 720
)

type ApplicationType uint8

const (
	// Console style application without a window.
	ApplicationTypeBasic ApplicationType = iota
	// Application owning a native window and a render step.
	ApplicationTypeWindowed
)

func (t ApplicationType) String() string {
	switch t {
	case ApplicationTypeBasic:
		return "basic"
	case ApplicationTypeWindowed:
		return "windowed"
	}
	return fmt.Sprintf("ApplicationType(%d)", uint8(t))
}

func (t ApplicationType) Valid() bool {
	return t == ApplicationTypeBasic || t == ApplicationTypeWindowed
}

func (t ApplicationType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown application type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *ApplicationType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "basic":
		*t = ApplicationTypeBasic
	case "windowed":
		*t = ApplicationTypeWindowed
	default:
		return fmt.Errorf("unknown application type %q", text)
	}
	return nil
}

// UpdateType selects the run loop policy.
type UpdateType uint8

const (
	// Update (and render) exactly once, then return.
	UpdateTypeRunOnce UpdateType = iota
	// Update at most FrameRate times per second until quit.
	UpdateTypeFramerateLimited
	// Update as fast as possible until quit.
	UpdateTypeFramerateUnlimited
)

var updateTypeNames = map[UpdateType]string{
	UpdateTypeRunOnce:            "run_once",
	UpdateTypeFramerateLimited:   "framerate_limited",
	UpdateTypeFramerateUnlimited: "framerate_unlimited",
}

func (u UpdateType) String() string {
	if n, ok := updateTypeNames[u]; ok {
		return n
	}
	return fmt.Sprintf("UpdateType(%d)", uint8(u))
}

func (u UpdateType) Valid() bool {
	_, ok := updateTypeNames[u]
	return ok
}

func (u UpdateType) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("unknown update type %d", uint8(u))
	}
	return []byte(u.String()), nil
}

func (u *UpdateType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range updateTypeNames {
		if v == s {
			*u = k
			return nil
		}
	}
	return fmt.Errorf("unknown update type %q", text)
}

type RenderType = window.RenderType

const (
	RenderTypeNone      = window.RenderTypeNone
	RenderTypeSoftware  = window.RenderTypeSoftware
	RenderTypeOpenGL    = window.RenderTypeOpenGL
	RenderTypeDirectX11 = window.RenderTypeDirectX11
)

type WindowConfig struct {
	// Window title. Falls back to the application name when empty.
	Title string `toml:"title"`
	// Window starting position x axis.
	X int32 `toml:"x"`
	// Window starting position y axis.
	Y int32 `toml:"y"`
	// Window starting width.
	Width uint32 `toml:"width"`
	// Window starting height.
	Height uint32      `toml:"height"`
	Type   window.Type `toml:"type"`
}

type TelemetryConfig struct {
	// Address of the frame metrics websocket, e.g. "127.0.0.1:8089".
	// Empty disables it.
	Listen string `toml:"listen"`
}

type ApplicationConfig struct {
	// The application name used in windowing and logging.
	Name            string          `toml:"name"`
	ApplicationType ApplicationType `toml:"application_type"`
	RenderType      RenderType      `toml:"render_type"`
	UpdateType      UpdateType      `toml:"update_type"`
	// Target frames per second for UpdateTypeFramerateLimited.
	FrameRate float64         `toml:"frame_rate"`
	Window    WindowConfig    `toml:"window"`
	LogLevel  core.LogLevel   `toml:"log_level"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

func NewApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		ApplicationType: ApplicationTypeBasic,
		RenderType:      RenderTypeNone,
		UpdateType:      UpdateTypeRunOnce,
		FrameRate:       DefaultFrameRate,
		Window: WindowConfig{
			X:      DefaultWindowX,
			Y:      DefaultWindowY,
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Type:   window.TypeWindowed,
		},
		LogLevel: core.InfoLevel,
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := NewApplicationConfig()
	if err := cfg.Load(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load decodes the TOML file over c. Keys missing from the file keep their
// current value.
func (c *ApplicationConfig) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return c.Decode(data)
}

func (c *ApplicationConfig) Decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%w: toml %d:%d: %s", core.ErrInvalidConfig, row, col, derr.Error())
		}
		return fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
	}
	return nil
}

// Encode renders the config as TOML.
func (c *ApplicationConfig) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// WindowTitle returns the configured title or the application name.
func (c *ApplicationConfig) WindowTitle() string {
	if c.Window.Title != "" {
		return c.Window.Title
	}
	return c.Name
}

// TargetFrameMS is the frame budget of the limited policy in milliseconds.
func (c *ApplicationConfig) TargetFrameMS() float64 {
	if c.FrameRate <= 0 {
		return 0
	}
	return (1.0 / c.FrameRate) * 1000.0
}

func (c *ApplicationConfig) Validate() error {
	var errs []error
	if !c.ApplicationType.Valid() {
		errs = append(errs, fmt.Errorf("%w: unknown application type %d", core.ErrInvalidConfig, uint8(c.ApplicationType)))
	}
	if !c.RenderType.Valid() {
		errs = append(errs, fmt.Errorf("%w: unknown render type %d", core.ErrInvalidConfig, uint8(c.RenderType)))
	}
	if !c.UpdateType.Valid() {
		errs = append(errs, fmt.Errorf("%w: unknown update type %d", core.ErrInvalidConfig, uint8(c.UpdateType)))
	}
	if c.UpdateType == UpdateTypeFramerateLimited && c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: frame rate must be positive, got %g", core.ErrInvalidConfig, c.FrameRate))
	}
	if c.ApplicationType == ApplicationTypeWindowed && (c.Window.Width == 0 || c.Window.Height == 0) {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", core.ErrInvalidConfig, c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}
