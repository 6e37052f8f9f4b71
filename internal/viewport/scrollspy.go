package viewport

import "slices"

// SpyOptions configure a ScrollSpy.
type SpyOptions struct {
	IDs        []string
	RootMargin Margin
	Thresholds []float64
	// BandTop and BandBottom bound, as fractions of the viewport height, the
	// band a section midpoint must fall in to be picked on first load.
	BandTop    float64
	BandBottom float64
}

// Default scrollspy settings for a navigation bar.
var (
	DefaultSpyMargin     = MustParseMargin("-45% 0px -50% 0px")
	DefaultSpyThresholds = []float64{0, 0.25, 0.5, 0.75, 1}
)

const (
	defaultBandTop    = 0.45
	defaultBandBottom = 0.55
)

// ScrollSpy resolves which section is active for navigation highlighting.
type ScrollSpy struct {
	page   *Page
	ids    []string
	top    float64
	bottom float64

	obs    *Observer
	obsSub *Subscription
	active string
	subs   registry[string]
	closed bool
}

// NewScrollSpy builds a spy over ids. Call Start to begin resolving.
func NewScrollSpy(page *Page, opts SpyOptions) *ScrollSpy {
	if opts.Thresholds == nil {
		opts.Thresholds = DefaultSpyThresholds
	}
	if opts.BandTop == 0 && opts.BandBottom == 0 {
		opts.BandTop, opts.BandBottom = defaultBandTop, defaultBandBottom
	}
	return &ScrollSpy{
		page:   page,
		ids:    append([]string(nil), opts.IDs...),
		top:    opts.BandTop,
		bottom: opts.BandBottom,
		obs: NewObserver(page, ObserverOptions{
			Thresholds: opts.Thresholds,
			RootMargin: opts.RootMargin,
		}),
	}
}

// Subscribe registers a handler called with each new active id.
func (s *ScrollSpy) Subscribe(fn func(id string)) *Subscription { return s.subs.add(fn) }

// Active returns the active id, or "" before any section resolved.
func (s *ScrollSpy) Active() string { return s.active }

// Start picks the initial section and begins observing. A fragment naming a
// section present on the page wins; otherwise the first section whose
// midpoint sits in the band is chosen. Sections missing from the page are ignored.
func (s *ScrollSpy) Start() {
	if s.closed || s.obsSub != nil {
		return
	}
	present := slices.DeleteFunc(append([]string(nil), s.ids...), func(id string) bool { return !s.page.Has(id) })
	if len(present) == 0 {
		return
	}
	if f := s.page.Fragment(); f != "" && slices.Contains(present, f) {
		s.set(f)
	} else {
		vh := s.page.Viewport().Height
		for _, id := range present {
			box, _ := s.page.Rect(id)
			if mid := box.Midpoint(); mid >= vh*s.top && mid <= vh*s.bottom {
				s.set(id)
				break
			}
		}
	}
	s.obsSub = s.obs.SubscribeBatch(s.onBatch)
	s.obs.Observe(present...)
}

// Activate marks id active as a navigation click does and writes the
// fragment. Unknown ids are ignored.
func (s *ScrollSpy) Activate(id string) {
	if s.closed || !slices.Contains(s.ids, id) {
		return
	}
	s.page.SetFragment(id)
	s.set(id)
}

// Close stops observing and drops handlers.
func (s *ScrollSpy) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.obsSub.Close()
	s.obs.Disconnect()
	s.subs = registry[string]{}
}

// onBatch re-resolves after any threshold crossing, comparing the current
// ratio of every observed section.
func (s *ScrollSpy) onBatch([]Entry) {
	best, ratio := "", -1.0
	for e := range s.obs.Entries() {
		if e.Visible && e.Ratio > ratio {
			best, ratio = e.ID, e.Ratio
		}
	}
	if best != "" {
		s.set(best)
	}
}

func (s *ScrollSpy) set(id string) {
	if id == s.active {
		return
	}
	s.active = id
	s.subs.emit(id)
}
