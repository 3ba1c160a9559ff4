package model

import (
	"sync/atomic"
)

// FrameModel tracks whether the canvas needs a redraw and how many frames
// were drawn. The zero value is clean and usable.
// Atomics because the debug stats logger reads the counters off the UI thread.
type FrameModel struct {
	dirty    atomic.Bool
	redraws  atomic.Uint64
	requests atomic.Uint64
}

// MarkDirty requests a redraw on the next tick. Repeated requests before the
// tick coalesce into one frame.
func (m *FrameModel) MarkDirty() {
	if m == nil {
		return
	}
	m.requests.Add(1)
	m.dirty.Store(true)
}

// TakeDirty reports whether a redraw is pending and clears the flag.
func (m *FrameModel) TakeDirty() bool {
	if m == nil {
		return false
	}
	return m.dirty.Swap(false)
}

// Dirty reports whether a redraw is pending without clearing it.
func (m *FrameModel) Dirty() bool {
	if m == nil {
		return false
	}
	return m.dirty.Load()
}

// Drawn counts a completed frame.
func (m *FrameModel) Drawn() {
	if m == nil {
		return
	}
	m.redraws.Add(1)
}

// Counters returns frames drawn and redraw requests received.
func (m *FrameModel) Counters() (redraws, requests uint64) {
	if m == nil {
		return 0, 0
	}
	return m.redraws.Load(), m.requests.Load()
}
