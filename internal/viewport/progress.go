package viewport

import "math"

// ProgressOptions configure a ProgressTracker.
type ProgressOptions struct {
	// Exponent shapes the eased value as 1-(1-p)^Exponent. Values at or below
	// zero mean linear.
	Exponent float64
	// OnProgress receives the eased progress after every recompute.
	OnProgress func(progress float64)
	// Measure turns the element box into raw progress. Nil means
	// VerticalFraction.
	Measure func(box Rect, viewportHeight float64) float64
}

// ProgressTracker follows how much of one element's height sits inside the
// viewport. Recomputes are coalesced to one per frame. Once the element is
// fully inside the tracker locks and stops listening.
type ProgressTracker struct {
	page     *Page
	id       string
	exponent float64
	notify   func(float64)
	measure  func(Rect, float64) float64

	gate      frameGate
	scrollSub *Subscription
	resizeSub *Subscription

	raw        float64
	eased      float64
	locked     bool
	closed     bool
	recomputes int
}

// NewProgressTracker starts tracking id. A first recompute is queued for the
// next frame so the initial position is reported without a scroll.
func NewProgressTracker(page *Page, id string, opts ProgressOptions) *ProgressTracker {
	exp := opts.Exponent
	if exp <= 0 {
		exp = 1
	}
	measure := opts.Measure
	if measure == nil {
		measure = VerticalFraction
	}
	t := &ProgressTracker{
		page:     page,
		id:       id,
		exponent: exp,
		notify:   opts.OnProgress,
		measure:  measure,
		gate:     frameGate{loop: page.Loop()},
	}
	t.scrollSub = page.OnScroll(func(float64) { t.schedule() })
	t.resizeSub = page.OnResize(func(Size) { t.schedule() })
	t.schedule()
	return t
}

// Progress returns the last eased value.
func (t *ProgressTracker) Progress() float64 { return t.eased }

// Raw returns the last unshaped value.
func (t *ProgressTracker) Raw() float64 { return t.raw }

// Locked reports whether the element has been fully revealed.
func (t *ProgressTracker) Locked() bool { return t.locked }

// Recomputes counts executed recomputations.
func (t *ProgressTracker) Recomputes() int { return t.recomputes }

// Close releases listeners and any pending frame.
func (t *ProgressTracker) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.release()
}

func (t *ProgressTracker) schedule() {
	if t.locked || t.closed {
		return
	}
	t.gate.request(t.update)
}

func (t *ProgressTracker) update() {
	if t.locked || t.closed {
		return
	}
	box, ok := t.page.Rect(t.id)
	if !ok {
		return
	}
	t.recomputes++
	t.raw = clamp01(t.measure(box, t.page.Viewport().Height))
	t.eased = Ease(t.raw, t.exponent)
	if t.raw >= 1 {
		t.locked = true
		t.release()
	}
	if t.notify != nil {
		t.notify(t.eased)
	}
}

func (t *ProgressTracker) release() {
	t.scrollSub.Close()
	t.resizeSub.Close()
	t.gate.stop()
}

// Ease maps p in [0,1] through 1-(1-p)^exponent.
func Ease(p, exponent float64) float64 {
	p = clamp01(p)
	if exponent <= 0 || exponent == 1 {
		return p
	}
	return clamp01(1 - math.Pow(1-p, exponent))
}

// Lerp interpolates between from and to by p.
func Lerp(from, to, p float64) float64 { return from + (to-from)*clamp01(p) }

// ScrollThrough is how far the viewport has travelled through box, in [0,1]:
// 0 while its top is at or below the viewport top, 1 once it has scrolled a
// full box height past it.
func ScrollThrough(box Rect, viewportHeight float64) float64 {
	h := box.Height
	if h <= 0 {
		h = viewportHeight
	}
	if h <= 0 {
		return 0
	}
	return clamp01(-box.Top / h)
}
