package testbed_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/spaghettifunk/landan/engine"
	"github.com/spaghettifunk/landan/engine/core"
	"github.com/spaghettifunk/landan/engine/window"
	"github.com/spaghettifunk/landan/testbed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	core.SetLogOutput(io.Discard)
}

func TestHelloApplication(t *testing.T) {
	var out bytes.Buffer
	app := testbed.NewHelloApplication(&out)
	assert.Equal(t, engine.ApplicationTypeBasic, app.Kind())

	require.NoError(t, engine.Main(app))
	assert.Equal(t, "hello from Landan Hello\n", out.String())
}

func TestTestGameQuitsAfterRunFor(t *testing.T) {
	game := testbed.NewTestGame(50)
	assert.Equal(t, engine.ApplicationTypeWindowed, game.Kind())

	// Without an engine the quit request is only logged.
	require.NoError(t, game.FnUpdate(10))
	assert.False(t, game.Quitting())

	cfg := engine.NewApplicationConfig()
	require.NoError(t, game.FnConfigure(cfg))
	assert.Equal(t, "Landan Testbed", cfg.WindowTitle())
	require.NoError(t, game.FnOnResize(640, 480))
	require.NoError(t, game.FnRender(10))
	require.NoError(t, game.FnDestroy())
}

type headlessBackend struct {
	created, destroyed bool
}

func (b *headlessBackend) Init() error { return nil }

func (b *headlessBackend) Create(w *window.Window, renderType window.RenderType) error {
	b.created = true
	return nil
}

func (b *headlessBackend) PumpMessages() bool { return true }

func (b *headlessBackend) Destroy(w *window.Window) error {
	b.destroyed = true
	return nil
}

func (b *headlessBackend) Terminate() error { return nil }

func TestTestGameRunsHeadless(t *testing.T) {
	game := testbed.NewTestGame(50)
	backend := &headlessBackend{}

	require.NoError(t, engine.Main(game.Application, engine.WithWindowBackend(backend)))
	assert.True(t, game.Quitting())
	assert.True(t, backend.created)
	assert.True(t, backend.destroyed)
}

func TestTestGameLogsFrameMetrics(t *testing.T) {
	var out bytes.Buffer
	core.SetLogOutput(&out)
	defer core.SetLogOutput(io.Discard)

	game := testbed.NewTestGame(1200)
	require.NoError(t, engine.Main(game.Application, engine.WithWindowBackend(&headlessBackend{})))

	assert.Greater(t, game.Metrics().Frames, uint64(0))
	assert.Contains(t, out.String(), "fps")
	assert.Contains(t, out.String(), "ms/frame")
}
