package viewport

import (
	"sort"
	"time"
)

// Cancel drops a scheduled callback. Calling it after the callback ran, or
// more than once, does nothing.
type Cancel func()

// Loop is the host event loop: animation frames plus timers. Callbacks run
// one at a time on the loop; nothing runs concurrently.
type Loop interface {
	RequestFrame(fn func()) Cancel
	AfterFunc(d time.Duration, fn func()) Cancel
	Now() time.Duration
}

type timer struct {
	due time.Duration
	seq uint64
	fn  func()
}

// ManualLoop is a deterministic Loop driven by the caller: Frame runs the
// queued frame callbacks, Advance moves the virtual clock and fires due timers.
type ManualLoop struct {
	now    time.Duration
	seq    uint64
	frames map[uint64]func()
	timers map[uint64]*timer
}

// NewManualLoop returns a loop whose clock starts at zero.
func NewManualLoop() *ManualLoop {
	return &ManualLoop{
		frames: make(map[uint64]func()),
		timers: make(map[uint64]*timer),
	}
}

// RequestFrame queues fn for the next Frame call.
func (l *ManualLoop) RequestFrame(fn func()) Cancel {
	l.seq++
	id := l.seq
	l.frames[id] = fn
	return func() { delete(l.frames, id) }
}

// AfterFunc queues fn to run once the clock reaches Now()+d.
func (l *ManualLoop) AfterFunc(d time.Duration, fn func()) Cancel {
	if d < 0 {
		d = 0
	}
	l.seq++
	id := l.seq
	l.timers[id] = &timer{due: l.now + d, seq: id, fn: fn}
	return func() { delete(l.timers, id) }
}

// Now returns the virtual clock.
func (l *ManualLoop) Now() time.Duration { return l.now }

// PendingFrames reports how many frame callbacks are queued.
func (l *ManualLoop) PendingFrames() int { return len(l.frames) }

// PendingTimers reports how many timers have not fired yet.
func (l *ManualLoop) PendingTimers() int { return len(l.timers) }

// Frame runs every callback queued before the call, in request order.
// Callbacks requested while the frame runs wait for the next Frame.
// It returns the number of callbacks executed.
func (l *ManualLoop) Frame() int {
	ids := make([]uint64, 0, len(l.frames))
	for id := range l.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ran := 0
	for _, id := range ids {
		fn, ok := l.frames[id]
		if !ok {
			continue
		}
		delete(l.frames, id)
		fn()
		ran++
	}
	return ran
}

// Advance moves the clock forward by d, firing timers in due order. Timers
// scheduled by a firing timer also run if they fall within the window.
func (l *ManualLoop) Advance(d time.Duration) {
	target := l.now + d
	for {
		next := l.nextTimer(target)
		if next == nil {
			break
		}
		delete(l.timers, next.seq)
		l.now = next.due
		next.fn()
	}
	l.now = target
}

func (l *ManualLoop) nextTimer(limit time.Duration) *timer {
	var best *timer
	for _, t := range l.timers {
		if t.due > limit {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// frameGate coalesces bursts of requests into at most one pending frame.
type frameGate struct {
	loop    Loop
	pending bool
	cancel  Cancel
}

func (g *frameGate) request(fn func()) {
	if g.pending {
		return
	}
	g.pending = true
	g.cancel = g.loop.RequestFrame(func() {
		g.pending = false
		g.cancel = nil
		fn()
	})
}

func (g *frameGate) stop() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.pending = false
}
