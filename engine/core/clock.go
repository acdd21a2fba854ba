package core

import (
	"math"
	"time"
)

// TimeSource provides the monotonic time a Clock reads from.
type TimeSource interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }
func (systemTime) Sleep(d time.Duration) { time.Sleep(d) }

// Clock measures milliseconds elapsed since it was started.
type Clock struct {
	source    TimeSource
	startTime time.Time
	running   bool
}

func NewClock() *Clock {
	return NewClockWithSource(systemTime{})
}

func NewClockWithSource(source TimeSource) *Clock {
	if source == nil {
		source = systemTime{}
	}
	return &Clock{source: source}
}

// Starts the clock. Resets the origin.
func (c *Clock) Start() {
	c.startTime = c.source.Now()
	c.running = true
}

// Stops the clock. Milliseconds reports 0 until the next Start.
func (c *Clock) Stop() {
	c.running = false
}

func (c *Clock) Running() bool {
	return c.running
}

// Milliseconds returns the time since Start. time.Time carries a monotonic
// reading, so successive values never go backwards.
func (c *Clock) Milliseconds() float64 {
	if !c.running {
		return 0
	}
	return float64(c.source.Now().Sub(c.startTime)) / float64(time.Millisecond)
}

// Sleep hands the remaining milliseconds back to the OS.
func (c *Clock) Sleep(ms float64) {
	if ms <= 0 {
		return
	}
	// Round up so the caller wakes at or after the deadline.
	c.source.Sleep(time.Duration(math.Ceil(ms * float64(time.Millisecond))))
}
