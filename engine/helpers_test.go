package engine_test

import (
	"io"
	"sync"
	"time"

	"github.com/spaghettifunk/landan/engine/core"
	"github.com/spaghettifunk/landan/engine/window"
	"github.com/stretchr/testify/mock"
)

func init() {
	core.SetLogOutput(io.Discard)
}

// manualTime only moves when slept on or advanced by the test.
type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func newManualTime() *manualTime {
	return &manualTime{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Sleep(d time.Duration) {
	m.Advance(d)
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// fakeBackend records lifecycle calls with testify and lets a test script
// what each message pump does.
type fakeBackend struct {
	mock.Mock

	window *window.Window
	pumps  int
	swaps  int
	onPump func(n int, w *window.Window) bool
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{}
	b.On("Init").Return(nil)
	b.On("Create", mock.Anything, mock.Anything).Return(nil)
	b.On("Destroy", mock.Anything).Return(nil)
	b.On("Terminate").Return(nil)
	return b
}

func (b *fakeBackend) Init() error {
	return b.Called().Error(0)
}

func (b *fakeBackend) Create(w *window.Window, renderType window.RenderType) error {
	args := b.Called(w, renderType)
	if args.Error(0) == nil {
		b.window = w
	}
	return args.Error(0)
}

func (b *fakeBackend) PumpMessages() bool {
	b.pumps++
	if b.onPump != nil {
		return b.onPump(b.pumps, b.window)
	}
	return true
}

func (b *fakeBackend) Destroy(w *window.Window) error {
	return b.Called(w).Error(0)
}

func (b *fakeBackend) Terminate() error {
	return b.Called().Error(0)
}

func (b *fakeBackend) SwapBuffers() {
	b.swaps++
}
