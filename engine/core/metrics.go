package core

import (
	"sync"

	"github.com/spaghettifunk/landan/engine/containers"
)

// Number of frames averaged into AverageFrameMS.
const AVG_COUNT = 30

type MetricsSnapshot struct {
	FPS            float64
	AverageFrameMS float64
	Frames         uint64
}

// Metrics tracks frame timings fed by the run loop. Reads may happen from
// any goroutine.
type Metrics struct {
	mu sync.RWMutex

	frameTimes         *containers.RingQueue[float64]
	msAvg              float64
	framesThisSecond   int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{
		frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records one delivered frame that took frameMS milliseconds.
func (m *Metrics) Update(frameMS float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameMS = ClampMin(frameMS, 0)

	m.frameTimes.Push(frameMS)
	var sum float64
	for _, v := range m.frameTimes.Values() {
		sum += v
	}
	m.msAvg = sum / float64(m.frameTimes.Len())

	m.framesThisSecond++
	m.totalFrames++
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.framesThisSecond)
		m.accumulatedFrameMS -= 1000
		m.framesThisSecond = 0
	}
}

func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frameTimes = containers.NewRingQueue[float64](AVG_COUNT)
	m.msAvg = 0
	m.framesThisSecond = 0
	m.accumulatedFrameMS = 0
	m.fps = 0
	m.totalFrames = 0
}

func (m *Metrics) FPS() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.msAvg
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		FPS:            m.fps,
		AverageFrameMS: m.msAvg,
		Frames:         m.totalFrames,
	}
}
