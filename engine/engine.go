package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spaghettifunk/landan/engine/core"
	"github.com/spaghettifunk/landan/engine/telemetry"
	"github.com/spaghettifunk/landan/engine/window"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Quit flag, config and timer are ready
	EngineStageInitialized
	// Config applied, window created and application initialized
	EngineStagePrepared
	// Engine is inside, or returned from, the run loop
	EngineStageRunning
	// Application destroyed and resources released
	EngineStageStopped
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitialized:
		return "initialized"
	case EngineStagePrepared:
		return "prepared"
	case EngineStageRunning:
		return "running"
	case EngineStageStopped:
		return "stopped"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

type Engine struct {
	id  uuid.UUID
	log *log.Logger

	currentStage Stage
	app          *Application
	quitFlag     *core.QuitFlag
	clock        *core.Clock
	metrics      *core.Metrics

	configMu      sync.RWMutex
	config        *ApplicationConfig
	targetFrameMS atomic.Uint64

	configFile  string
	watchConfig bool
	watcher     *ConfigWatcher
	telemetry   *telemetry.Server

	backend     window.Backend
	window      *window.Window
	isSuspended bool
	resumed     bool
}

type Option func(e *Engine)

// WithConfigFile overlays the TOML file on the defaults during Prepare.
func WithConfigFile(path string) Option {
	return func(e *Engine) {
		e.configFile = path
	}
}

// WithConfigWatch reloads the config file while the engine runs.
func WithConfigWatch() Option {
	return func(e *Engine) {
		e.watchConfig = true
	}
}

func WithWindowBackend(b window.Backend) Option {
	return func(e *Engine) {
		e.backend = b
	}
}

func WithClock(c *core.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

func New(app *Application, opts ...Option) (*Engine, error) {
	if app == nil {
		return nil, fmt.Errorf("engine requires an application")
	}
	if app.FnUpdate == nil {
		core.LogError("application %q has no update function", app.Name)
		return nil, core.ErrNoUpdate
	}

	id := uuid.New()
	e := &Engine{
		id:           id,
		log:          core.LogWith("session", id.String()),
		currentStage: EngineStageUninitialized,
		app:          app,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if app.kind == ApplicationTypeWindowed && e.backend == nil {
		return nil, core.ErrNoWindowBackend
	}
	return e, nil
}

func (e *Engine) ID() uuid.UUID {
	return e.id
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// TelemetryAddr is the address the telemetry server is bound to, or empty
// when telemetry is off.
func (e *Engine) TelemetryAddr() string {
	if e.telemetry == nil {
		return ""
	}
	return e.telemetry.Addr()
}

func (e *Engine) Metrics() core.MetricsSnapshot {
	return e.metrics.Snapshot()
}

func (e *Engine) Window() *window.Window {
	return e.window
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() ApplicationConfig {
	e.configMu.RLock()
	defer e.configMu.RUnlock()
	if e.config == nil {
		return *NewApplicationConfig()
	}
	return *e.config
}

// Quit raises the quit flag. Safe to call from any goroutine.
func (e *Engine) Quit() {
	if e.quitFlag != nil {
		e.quitFlag.Raise()
	}
}

func (e *Engine) expectStage(op string, allowed ...Stage) error {
	for _, s := range allowed {
		if e.currentStage == s {
			return nil
		}
	}
	return fmt.Errorf("%s: %w (stage %s)", op, core.ErrInvalidStage, e.currentStage)
}

// Initialize hands a fresh quit flag to the application, creates the config
// and starts the timer.
func (e *Engine) Initialize() error {
	if err := e.expectStage("initialize", EngineStageUninitialized); err != nil {
		return err
	}

	e.quitFlag = core.NewQuitFlag()
	e.app.applyQuitFlag(e.quitFlag)
	e.app.applyMetrics(e.metrics)

	e.configMu.Lock()
	e.config = NewApplicationConfig()
	e.config.Name = e.app.Name
	e.configMu.Unlock()

	e.clock.Start()

	e.currentStage = EngineStageInitialized
	e.log.Debug("engine initialized", "application", e.app.Name, "kind", e.app.kind)
	return nil
}

// Prepare applies the configuration for the application kind and
// initializes the application.
func (e *Engine) Prepare() error {
	if err := e.expectStage("prepare", EngineStageInitialized); err != nil {
		return err
	}

	var err error
	switch e.app.kind {
	case ApplicationTypeBasic:
		err = e.prepBasic()
	case ApplicationTypeWindowed:
		err = e.prepWindowed()
	default:
		err = fmt.Errorf("%w: unknown application type %d", core.ErrInvalidConfig, uint8(e.app.kind))
	}
	if err != nil {
		return err
	}
	if err := e.startServices(); err != nil {
		return err
	}

	e.currentStage = EngineStagePrepared
	return nil
}

func (e *Engine) prepBasic() error {
	// Minimum defaults in case the application doesn't override anything.
	e.configMu.Lock()
	e.config.ApplicationType = ApplicationTypeBasic
	e.config.RenderType = RenderTypeNone
	e.config.UpdateType = UpdateTypeRunOnce
	e.configMu.Unlock()

	if err := e.applyConfig(); err != nil {
		return err
	}

	var errs []error
	cfg := e.Config()
	if cfg.ApplicationType != ApplicationTypeBasic {
		e.log.Error("Basic applications must have their application type set to BASIC.")
		errs = append(errs, fmt.Errorf("%w: basic application with application type %s", core.ErrInvalidConfig, cfg.ApplicationType))
	}
	if cfg.RenderType != RenderTypeNone {
		e.log.Error("Basic applications must have their render type set to NONE.")
		errs = append(errs, fmt.Errorf("%w: basic application with render type %s", core.ErrInvalidConfig, cfg.RenderType))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return e.initializeApplication()
}

func (e *Engine) prepWindowed() error {
	e.configMu.Lock()
	e.config.ApplicationType = ApplicationTypeWindowed
	e.config.RenderType = RenderTypeOpenGL
	e.config.UpdateType = UpdateTypeFramerateLimited
	e.configMu.Unlock()

	if err := e.applyConfig(); err != nil {
		return err
	}

	cfg := e.Config()
	if cfg.ApplicationType != ApplicationTypeWindowed {
		e.log.Error("Windowed applications must have their application type set to WINDOWED.")
		return fmt.Errorf("%w: windowed application with application type %s", core.ErrInvalidConfig, cfg.ApplicationType)
	}

	w := window.New(cfg.WindowTitle(), cfg.Window.X, cfg.Window.Y, cfg.Window.Width, cfg.Window.Height, cfg.Window.Type, e.backend)
	w.SetHandler(&windowHandler{engine: e})
	if err := w.Init(cfg.RenderType); err != nil {
		e.log.Error("failed to create window", "err", err)
		return err
	}
	e.window = w

	if err := e.initializeApplication(); err != nil {
		return err
	}
	if e.app.FnOnResize != nil {
		width, height := w.Size()
		if err := e.app.FnOnResize(width, height); err != nil {
			return err
		}
	}
	return nil
}

// applyConfig overlays the config file, lets the application override any
// setting and validates the result.
func (e *Engine) applyConfig() error {
	// Nothing reads the config concurrently until startServices.
	cfg := e.config
	if e.configFile != "" {
		if err := cfg.Load(e.configFile); err != nil {
			e.log.Error("failed to load config file", "path", e.configFile, "err", err)
			return err
		}
	}

	if e.app.FnConfigure != nil {
		if err := e.app.FnConfigure(cfg); err != nil {
			return fmt.Errorf("configure %q: %w", e.app.Name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		e.log.Error("invalid application config", "err", err)
		return err
	}

	e.setLogLevel(cfg.LogLevel)
	e.setTargetFrameMS(cfg.TargetFrameMS())

	return nil
}

// startServices launches the background helpers once the application is
// prepared: the config watcher and the telemetry server.
func (e *Engine) startServices() error {
	cfg := e.Config()
	if e.watchConfig && e.configFile != "" {
		watcher, err := NewConfigWatcher(e.configFile, e.Config, e.applyReload)
		if err != nil {
			return err
		}
		e.watcher = watcher
	}

	if cfg.Telemetry.Listen != "" {
		srv := telemetry.New(cfg.Telemetry.Listen, e.telemetrySnapshot, time.Second)
		if err := srv.Start(); err != nil {
			e.log.Error("failed to start telemetry", "listen", cfg.Telemetry.Listen, "err", err)
			return err
		}
		e.log.Info("telemetry listening", "addr", srv.Addr())
		e.telemetry = srv
	}
	return nil
}

func (e *Engine) initializeApplication() error {
	if e.app.FnInitialize == nil {
		return nil
	}
	if err := e.app.FnInitialize(); err != nil {
		e.log.Error("application initialize failed", "err", err)
		return err
	}
	return nil
}

// applyReload takes the settings that are safe to change while running.
func (e *Engine) applyReload(next ApplicationConfig) {
	if err := next.Validate(); err != nil {
		e.log.Error("ignoring reloaded config", "err", err)
		return
	}

	e.configMu.Lock()
	defer e.configMu.Unlock()
	cur := e.config

	if next.FrameRate != cur.FrameRate {
		e.log.Info("frame rate changed", "from", cur.FrameRate, "to", next.FrameRate)
		cur.FrameRate = next.FrameRate
		e.setTargetFrameMS(cur.TargetFrameMS())
	}
	if next.LogLevel != cur.LogLevel {
		e.log.Info("log level changed", "from", cur.LogLevel, "to", next.LogLevel)
		cur.LogLevel = next.LogLevel
		e.setLogLevel(cur.LogLevel)
	}
	if next.ApplicationType != cur.ApplicationType || next.RenderType != cur.RenderType ||
		next.UpdateType != cur.UpdateType || next.Window != cur.Window ||
		next.Telemetry != cur.Telemetry || next.Name != cur.Name {
		e.log.Warn("config changes besides frame_rate and log_level require a restart")
	}
}

// The session logger keeps its own copy of the level.
func (e *Engine) setLogLevel(level core.LogLevel) {
	core.SetLogLevel(level)
	e.log.SetLevel(log.Level(level))
}

func (e *Engine) setTargetFrameMS(ms float64) {
	e.targetFrameMS.Store(math.Float64bits(ms))
}

func (e *Engine) getTargetFrameMS() float64 {
	return math.Float64frombits(e.targetFrameMS.Load())
}

func (e *Engine) telemetrySnapshot() telemetry.Snapshot {
	m := e.metrics.Snapshot()
	return telemetry.Snapshot{
		Session: e.id.String(),
		FPS:     m.FPS,
		FrameMS: m.AverageFrameMS,
		Frames:  m.Frames,
	}
}

// Stop destroys the application and releases the window and helpers.
func (e *Engine) Stop() error {
	if err := e.expectStage("stop", EngineStageInitialized, EngineStagePrepared, EngineStageRunning); err != nil {
		return err
	}

	var errs []error
	if e.currentStage != EngineStageInitialized && e.app.FnDestroy != nil {
		if err := e.app.FnDestroy(); err != nil {
			e.log.Error("application destroy failed", "err", err)
			errs = append(errs, err)
		}
	}
	if e.window != nil && e.window.Created() {
		if err := e.window.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		e.watcher = nil
	}
	if e.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := e.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		cancel()
		e.telemetry = nil
	}
	e.clock.Stop()

	e.currentStage = EngineStageStopped
	e.log.Debug("engine stopped", "frames", e.metrics.Snapshot().Frames)
	return errors.Join(errs...)
}

type windowHandler struct {
	engine *Engine
}

func (h *windowHandler) OnResize(width, height uint32, state window.ResizeState) {
	e := h.engine
	e.log.Debug("window resize", "width", width, "height", height, "state", state)

	// Handle minimization
	if state == window.ResizeMinimized || width == 0 || height == 0 {
		if !e.isSuspended {
			e.log.Info("Window minimized, suspending application.")
			e.isSuspended = true
		}
		return
	}
	if e.isSuspended {
		e.log.Info("Window restored, resuming application.")
		e.isSuspended = false
		e.resumed = true
	}
	if e.app.FnOnResize != nil {
		if err := e.app.FnOnResize(width, height); err != nil {
			e.log.Error("application resize failed", "err", err)
		}
	}
}

func (h *windowHandler) OnMove(x, y int32) {
	e := h.engine
	if e.app.FnOnMove != nil {
		if err := e.app.FnOnMove(x, y); err != nil {
			e.log.Error("application move failed", "err", err)
		}
	}
}

func (h *windowHandler) OnClose() {
	h.engine.log.Info("window close requested, shutting down.")
	h.engine.Quit()
}

func (h *windowHandler) OnDestroy() {
	h.engine.log.Debug("window destroyed")
}
