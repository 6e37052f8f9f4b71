package viewport

import (
	"sort"
	"strings"
)

// Subscription is a registered handler. Close deregisters it; it is safe to
// call Close more than once and on a nil Subscription.
type Subscription struct {
	close func()
}

// Close releases the handler.
func (s *Subscription) Close() {
	if s == nil || s.close == nil {
		return
	}
	s.close()
	s.close = nil
}

// registry keeps handlers in registration order.
type registry[T any] struct {
	next     uint64
	handlers map[uint64]func(T)
}

func (r *registry[T]) add(fn func(T)) *Subscription {
	if r.handlers == nil {
		r.handlers = make(map[uint64]func(T))
	}
	r.next++
	id := r.next
	r.handlers[id] = fn
	return &Subscription{close: func() { delete(r.handlers, id) }}
}

func (r *registry[T]) emit(v T) {
	ids := make([]uint64, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if fn, ok := r.handlers[id]; ok {
			fn(v)
		}
	}
}

func (r *registry[T]) len() int { return len(r.handlers) }

// Preferences are user-agent media conditions read at trigger time.
type Preferences struct {
	ReducedMotion bool `json:"reducedMotion"`
}

// Page is the headless document: a viewport scrolled over element boxes laid
// out in document coordinates.
type Page struct {
	loop     Loop
	viewport Size
	scrollY  float64
	fragment string
	prefs    Preferences
	boxes    map[string]Rect

	scroll registry[float64]
	resize registry[Size]
}

// NewPage creates an empty page on loop.
func NewPage(loop Loop, vp Size) *Page {
	return &Page{loop: loop, viewport: vp, boxes: make(map[string]Rect)}
}

// Loop returns the event loop the page dispatches on.
func (p *Page) Loop() Loop { return p.loop }

// Place adds or moves an element, given in document coordinates.
func (p *Page) Place(id string, box Rect) { p.boxes[id] = box }

// Remove deletes an element. Observers treat it as absent from then on.
func (p *Page) Remove(id string) { delete(p.boxes, id) }

// Has reports whether an element exists.
func (p *Page) Has(id string) bool {
	_, ok := p.boxes[id]
	return ok
}

// Rect returns the element box in viewport coordinates.
func (p *Page) Rect(id string) (Rect, bool) {
	box, ok := p.boxes[id]
	if !ok {
		return Rect{}, false
	}
	box.Top -= p.scrollY
	return box, true
}

// Viewport returns the viewport size.
func (p *Page) Viewport() Size { return p.viewport }

// ScrollY returns the vertical scroll offset.
func (p *Page) ScrollY() float64 { return p.scrollY }

// ScrollTo sets the scroll offset and dispatches a scroll event. Offsets are
// clamped to the scrollable range.
func (p *Page) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	if limit := p.documentHeight() - p.viewport.Height; limit >= 0 && y > limit {
		y = limit
	}
	p.scrollY = y
	p.scroll.emit(y)
}

// Resize changes the viewport and dispatches a resize event.
func (p *Page) Resize(vp Size) {
	p.viewport = vp
	p.resize.emit(vp)
}

// Fragment returns the navigation fragment without the leading '#'.
func (p *Page) Fragment() string { return p.fragment }

// SetFragment replaces the navigation fragment; a leading '#' is dropped.
func (p *Page) SetFragment(f string) { p.fragment = strings.TrimPrefix(f, "#") }

// Preferences returns the current media preferences.
func (p *Page) Preferences() Preferences { return p.prefs }

// SetPreferences replaces the media preferences.
func (p *Page) SetPreferences(prefs Preferences) { p.prefs = prefs }

// OnScroll registers a scroll handler.
func (p *Page) OnScroll(fn func(scrollY float64)) *Subscription { return p.scroll.add(fn) }

// OnResize registers a resize handler.
func (p *Page) OnResize(fn func(Size)) *Subscription { return p.resize.add(fn) }

// Listeners reports the number of registered scroll and resize handlers.
func (p *Page) Listeners() int { return p.scroll.len() + p.resize.len() }

func (p *Page) documentHeight() float64 {
	var h float64
	for _, b := range p.boxes {
		if b.Bottom() > h {
			h = b.Bottom()
		}
	}
	return h
}
