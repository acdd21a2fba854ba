package core

import "sync/atomic"

// QuitFlag is shared between the engine and the running application. The
// run loops keep going until someone raises it.
type QuitFlag struct {
	raised atomic.Bool
}

func NewQuitFlag() *QuitFlag {
	return &QuitFlag{}
}

func (q *QuitFlag) Raise() {
	q.raised.Store(true)
}

func (q *QuitFlag) Raised() bool {
	return q.raised.Load()
}

func (q *QuitFlag) Reset() {
	q.raised.Store(false)
}
