package viewport

import (
	"iter"
	"slices"
	"sort"
)

// ObserverOptions configure when an Observer reports a region.
type ObserverOptions struct {
	// Thresholds are the visibility ratios that trigger a report when crossed.
	// The lowest one decides Entry.Visible. Empty means [0].
	Thresholds []float64
	// RootMargin adjusts the viewport box before intersection is computed.
	RootMargin Margin
	// Once stops watching a region right after it is reported visible.
	Once bool
}

// Entry is one intersection report.
type Entry struct {
	ID      string  `json:"id"`
	Visible bool    `json:"visible"`
	Ratio   float64 `json:"ratio"`
	Bounds  Rect    `json:"bounds"`
}

type watch struct {
	seen  bool
	index int
	last  Entry
}

// Observer watches regions of a Page and reports threshold crossings. Checks
// run on the frame after a scroll or resize; bursts collapse into one check.
type Observer struct {
	page       *Page
	thresholds []float64
	margin     Margin
	once       bool

	gate    frameGate
	targets map[string]*watch
	order   []string
	subs    registry[Entry]
	batches registry[[]Entry]

	scrollSub *Subscription
	resizeSub *Subscription
	closed    bool
}

// NewObserver creates an Observer with nothing watched yet.
func NewObserver(page *Page, opts ObserverOptions) *Observer {
	th := append([]float64(nil), opts.Thresholds...)
	if len(th) == 0 {
		th = []float64{0}
	}
	for i := range th {
		th[i] = clamp01(th[i])
	}
	sort.Float64s(th)
	return &Observer{
		page:       page,
		thresholds: slices.Compact(th),
		margin:     opts.RootMargin,
		once:       opts.Once,
		gate:       frameGate{loop: page.Loop()},
		targets:    make(map[string]*watch),
	}
}

// Subscribe registers a handler for entries.
func (o *Observer) Subscribe(fn func(Entry)) *Subscription { return o.subs.add(fn) }

// SubscribeBatch registers a handler that receives every entry reported by
// one check together, highest ratio first.
func (o *Observer) SubscribeBatch(fn func([]Entry)) *Subscription { return o.batches.add(fn) }

// Observe starts watching ids. Ids missing from the page, or already watched,
// are skipped. Each new region gets one initial report on the next frame.
func (o *Observer) Observe(ids ...string) {
	if o.closed {
		return
	}
	added := false
	for _, id := range ids {
		if !o.page.Has(id) {
			continue
		}
		if _, ok := o.targets[id]; ok {
			continue
		}
		o.targets[id] = &watch{}
		o.order = append(o.order, id)
		added = true
	}
	if !added {
		return
	}
	o.listen()
	o.gate.request(o.check)
}

// Unobserve stops watching id.
func (o *Observer) Unobserve(id string) {
	if _, ok := o.targets[id]; !ok {
		return
	}
	delete(o.targets, id)
	o.order = slices.DeleteFunc(o.order, func(v string) bool { return v == id })
	if len(o.targets) == 0 {
		o.release()
	}
}

// Watching reports how many regions are still observed.
func (o *Observer) Watching() int { return len(o.targets) }

// Disconnect stops all observation and drops every handler.
func (o *Observer) Disconnect() {
	if o.closed {
		return
	}
	o.closed = true
	o.targets = make(map[string]*watch)
	o.order = nil
	o.release()
	o.subs = registry[Entry]{}
	o.batches = registry[[]Entry]{}
}

// Entries yields the latest report of every watched region, in observation
// order. The sequence reads current state each time it is ranged over.
func (o *Observer) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, id := range o.order {
			w := o.targets[id]
			if w == nil || !w.seen {
				continue
			}
			if !yield(w.last) {
				return
			}
		}
	}
}

func (o *Observer) listen() {
	if o.scrollSub == nil {
		o.scrollSub = o.page.OnScroll(func(float64) { o.gate.request(o.check) })
	}
	if o.resizeSub == nil {
		o.resizeSub = o.page.OnResize(func(Size) { o.gate.request(o.check) })
	}
}

func (o *Observer) release() {
	o.scrollSub.Close()
	o.resizeSub.Close()
	o.scrollSub, o.resizeSub = nil, nil
	o.gate.stop()
}

func (o *Observer) check() {
	if o.closed {
		return
	}
	root := o.margin.Root(o.page.Viewport())
	var changed []Entry
	for _, id := range o.order {
		w := o.targets[id]
		bounds, ok := o.page.Rect(id)
		if !ok {
			continue
		}
		ratio, intersecting := IntersectionRatio(bounds, root)
		idx := o.thresholdIndex(ratio, intersecting)
		e := Entry{ID: id, Visible: idx > 0, Ratio: ratio, Bounds: bounds}
		if w.seen && idx == w.index && e.Visible == w.last.Visible {
			w.last = e
			continue
		}
		w.seen = true
		w.index = idx
		w.last = e
		changed = append(changed, e)
	}
	if len(changed) == 0 {
		return
	}
	sort.SliceStable(changed, func(i, j int) bool { return changed[i].Ratio > changed[j].Ratio })
	o.batches.emit(slices.Clone(changed))
	for _, e := range changed {
		if o.closed {
			return
		}
		o.subs.emit(e)
		if o.once && e.Visible {
			o.Unobserve(e.ID)
		}
	}
}

// thresholdIndex counts the thresholds reached; zero means not visible.
func (o *Observer) thresholdIndex(ratio float64, intersecting bool) int {
	if !intersecting {
		return 0
	}
	n := 0
	for _, t := range o.thresholds {
		if ratio >= t {
			n++
		}
	}
	return n
}
