package window_test

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/landan/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mock.Mock
}

func (h *recordingHandler) OnResize(width, height uint32, state window.ResizeState) {
	h.Called(width, height, state)
}

func (h *recordingHandler) OnMove(x, y int32) {
	h.Called(x, y)
}

func (h *recordingHandler) OnClose() {
	h.Called()
}

func (h *recordingHandler) OnDestroy() {
	h.Called()
}

type stubBackend struct {
	mock.Mock
}

func (b *stubBackend) Init() error {
	return b.Called().Error(0)
}

func (b *stubBackend) Create(w *window.Window, renderType window.RenderType) error {
	return b.Called(w, renderType).Error(0)
}

func (b *stubBackend) PumpMessages() bool {
	return b.Called().Bool(0)
}

func (b *stubBackend) Destroy(w *window.Window) error {
	return b.Called(w).Error(0)
}

func (b *stubBackend) Terminate() error {
	return b.Called().Error(0)
}

func TestDispatch(t *testing.T) {
	t.Run("resize updates size and state before forwarding", func(t *testing.T) {
		w := window.New("dispatch", 0, 0, 640, 480, window.TypeWindowed, nil)
		h := &recordingHandler{}
		h.On("OnResize", uint32(800), uint32(600), window.ResizeMaximized).Run(func(mock.Arguments) {
			width, height := w.Size()
			assert.Equal(t, uint32(800), width)
			assert.Equal(t, uint32(600), height)
			assert.Equal(t, window.StateMaximized, w.State())
		}).Once()
		w.SetHandler(h)

		assert.True(t, w.Dispatch(window.ResizeMessage(800, 600, window.ResizeMaximized)))
		h.AssertExpectations(t)
	})

	t.Run("resize states map to window states", func(t *testing.T) {
		w := window.New("states", 0, 0, 640, 480, window.TypeWindowed, nil)

		w.Dispatch(window.ResizeMessage(0, 0, window.ResizeMinimized))
		assert.Equal(t, window.StateMinimized, w.State())

		// Another window changing does not change ours.
		w.Dispatch(window.ResizeMessage(0, 0, window.ResizeMaxHide))
		assert.Equal(t, window.StateMinimized, w.State())

		w.Dispatch(window.ResizeMessage(640, 480, window.ResizeRestored))
		assert.Equal(t, window.StateNormal, w.State())
	})

	t.Run("move, close and destroy are forwarded", func(t *testing.T) {
		w := window.New("forward", 10, 20, 640, 480, window.TypeWindowed, nil)
		h := &recordingHandler{}
		h.On("OnMove", int32(-5), int32(7)).Once()
		h.On("OnClose").Once()
		h.On("OnDestroy").Once()
		w.SetHandler(h)

		assert.True(t, w.Dispatch(window.MoveMessage(-5, 7)))
		assert.True(t, w.Dispatch(window.CloseMessage()))
		assert.True(t, w.Dispatch(window.DestroyMessage()))

		x, y := w.Position()
		assert.Equal(t, int32(-5), x)
		assert.Equal(t, int32(7), y)
		h.AssertExpectations(t)
	})

	t.Run("unknown messages are left to the platform", func(t *testing.T) {
		w := window.New("unknown", 0, 0, 1, 1, window.TypeWindowed, nil)
		h := &recordingHandler{}
		w.SetHandler(h)

		assert.False(t, w.Dispatch(window.Message{Kind: window.MessageUnknown}))
		assert.False(t, w.Dispatch(window.Message{Kind: window.MessageKind(200)}))
		h.AssertNotCalled(t, "OnResize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("messages without a handler still update state", func(t *testing.T) {
		w := window.New("no-handler", 0, 0, 1, 1, window.TypeWindowed, nil)
		assert.True(t, w.Dispatch(window.ResizeMessage(300, 200, window.ResizeRestored)))
		width, height := w.Size()
		assert.Equal(t, uint32(300), width)
		assert.Equal(t, uint32(200), height)
	})
}

func TestWindowLifecycle(t *testing.T) {
	t.Run("init creates through the backend", func(t *testing.T) {
		b := &stubBackend{}
		w := window.New("life", 1, 2, 320, 240, window.TypeBorderless, b)
		b.On("Init").Return(nil).Once()
		b.On("Create", w, window.RenderTypeSoftware).Return(nil).Once()
		b.On("PumpMessages").Return(true).Once()
		b.On("Destroy", w).Return(nil).Once()
		b.On("Terminate").Return(nil).Once()

		assert.False(t, w.PumpMessages())
		require.NoError(t, w.Init(window.RenderTypeSoftware))
		assert.True(t, w.Created())
		require.ErrorIs(t, w.Init(window.RenderTypeSoftware), window.ErrAlreadyCreated)
		assert.True(t, w.PumpMessages())

		h := &recordingHandler{}
		h.On("OnDestroy").Once()
		w.SetHandler(h)
		require.NoError(t, w.Destroy())
		assert.False(t, w.Created())
		require.ErrorIs(t, w.Destroy(), window.ErrNotCreated)

		b.AssertExpectations(t)
		h.AssertExpectations(t)
	})

	t.Run("init without a backend", func(t *testing.T) {
		w := window.New("none", 0, 0, 1, 1, window.TypeWindowed, nil)
		require.ErrorIs(t, w.Init(window.RenderTypeNone), window.ErrNoBackend)
	})

	t.Run("create failures are wrapped", func(t *testing.T) {
		b := &stubBackend{}
		w := window.New("broken", 0, 0, 1, 1, window.TypeFullscreen, b)
		boom := errors.New("no monitor")
		b.On("Init").Return(nil).Once()
		b.On("Create", w, window.RenderTypeOpenGL).Return(boom).Once()
		b.On("Terminate").Return(nil).Once()

		err := w.Init(window.RenderTypeOpenGL)
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "broken")
		assert.False(t, w.Created())
		b.AssertExpectations(t)
		b.AssertNumberOfCalls(t, "Terminate", 1)
	})

	t.Run("terminate errors are joined to create failures", func(t *testing.T) {
		b := &stubBackend{}
		w := window.New("broken", 0, 0, 1, 1, window.TypeWindowed, b)
		boom := errors.New("no display")
		stuck := errors.New("terminate failed")
		b.On("Init").Return(nil)
		b.On("Create", w, window.RenderTypeNone).Return(boom)
		b.On("Terminate").Return(stuck)

		err := w.Init(window.RenderTypeNone)
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, err, stuck)
	})
}

type swappingBackend struct {
	stubBackend
	swaps int
}

func (b *swappingBackend) SwapBuffers() {
	b.swaps++
}

func TestPresent(t *testing.T) {
	t.Run("opengl windows swap buffers", func(t *testing.T) {
		b := &swappingBackend{}
		w := window.New("gl", 0, 0, 1, 1, window.TypeWindowed, b)
		b.On("Init").Return(nil)
		b.On("Create", w, window.RenderTypeOpenGL).Return(nil)

		w.Present()
		assert.Equal(t, 0, b.swaps)

		require.NoError(t, w.Init(window.RenderTypeOpenGL))
		w.Present()
		w.Present()
		assert.Equal(t, 2, b.swaps)
	})

	t.Run("other render types leave the surface alone", func(t *testing.T) {
		b := &swappingBackend{}
		w := window.New("soft", 0, 0, 1, 1, window.TypeWindowed, b)
		b.On("Init").Return(nil)
		b.On("Create", w, window.RenderTypeSoftware).Return(nil)

		require.NoError(t, w.Init(window.RenderTypeSoftware))
		w.Present()
		assert.Equal(t, 0, b.swaps)
	})

	t.Run("backends without buffers are skipped", func(t *testing.T) {
		b := &stubBackend{}
		w := window.New("plain", 0, 0, 1, 1, window.TypeWindowed, b)
		b.On("Init").Return(nil)
		b.On("Create", w, window.RenderTypeOpenGL).Return(nil)

		require.NoError(t, w.Init(window.RenderTypeOpenGL))
		assert.NotPanics(t, w.Present)
	})
}

func TestTypeText(t *testing.T) {
	var typ window.Type
	require.NoError(t, typ.UnmarshalText([]byte("Fullscreen")))
	assert.Equal(t, window.TypeFullscreen, typ)
	require.Error(t, typ.UnmarshalText([]byte("floating")))

	var rt window.RenderType
	require.NoError(t, rt.UnmarshalText([]byte("directx11")))
	assert.Equal(t, window.RenderTypeDirectX11, rt)
	assert.False(t, window.RenderType(99).Valid())
	_, err := window.RenderType(99).MarshalText()
	require.Error(t, err)
}
