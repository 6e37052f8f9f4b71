package motion

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/iic-dev/portfolio/internal/viewport"
)

// Limits on replay input. MaxBurst caps the scroll events replayed within one
// frame and MaxWaitMS the clock advance after one step.
const (
	MaxSteps    = 2000
	MaxSections = 200
	MaxBurst    = 64
	MaxWaitMS   = 60_000
	frameMS     = 16
	settle      = 10 * time.Second
)

// ErrInvalidTrace marks a trace the engine cannot run.
var ErrInvalidTrace = errors.New("invalid trace")

// Section is one element of the replayed page, in document coordinates.
type Section struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Step is one point of a scroll trace. Burst repeats the scroll event within
// a single frame; WaitMS advances the clock after the frame. Remove unmounts
// elements before the step scrolls.
type Step struct {
	ScrollY float64        `json:"scrollY"`
	Burst   int            `json:"burst,omitempty"`
	WaitMS  int            `json:"waitMs,omitempty"`
	Resize  *viewport.Size `json:"resize,omitempty"`
	Remove  []string       `json:"remove,omitempty"`
}

// Trace is a recorded visit.
type Trace struct {
	Viewport      viewport.Size `json:"viewport"`
	Sections      []Section     `json:"sections,omitempty"`
	Fragment      string        `json:"fragment,omitempty"`
	ReducedMotion bool          `json:"reducedMotion,omitempty"`
	Steps         []Step        `json:"steps"`
}

// Event kinds recorded on a Timeline.
const (
	KindReveal   = "reveal"
	KindProgress = "progress"
	KindActive   = "active"
	KindHeadline = "headline"
	KindHero     = "hero"
	KindNavbar   = "navbar"
)

// Event is one observable change during a replay.
type Event struct {
	AtMS   int64   `json:"atMs"`
	Kind   string  `json:"kind"`
	Target string  `json:"target"`
	State  string  `json:"state,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

// Timeline is the result of a replay.
type Timeline struct {
	Events     []Event        `json:"events"`
	Active     string         `json:"active"`
	Fragment   string         `json:"fragment"`
	Revealed   []string       `json:"revealed"`
	Frames     int            `json:"frames"`
	Recomputes map[string]int `json:"recomputes"`
}

// Of returns the events of one kind.
func (t Timeline) Of(kind string) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// DefaultLayout is the page geometry for a 1280×800 desktop viewport.
func DefaultLayout() []Section {
	w := 1280.0
	return []Section{
		{ID: "hero", Top: 0, Width: w, Height: 800},
		{ID: "about", Top: 800, Width: w, Height: 1500},
		{ID: "about-bio", Top: 880, Width: 760, Height: 620},
		{ID: "about-bio-text", Top: 960, Width: 700, Height: 160},
		{ID: "about-photo", Top: 880, Left: 800, Width: 440, Height: 620},
		{ID: "about-timeline", Top: 1540, Width: w, Height: 420},
		{ID: "about-skills", Top: 2000, Width: w, Height: 260},
		{ID: "skills", Top: 2000, Width: w, Height: 260},
		{ID: "about-skill-tags", Top: 2060, Width: w, Height: 160},
		{ID: "projects", Top: 2300, Width: w, Height: 1100},
		{ID: "projects-header", Top: 2340, Width: w, Height: 140},
		{ID: "project-0", Top: 2520, Width: 520, Height: 180},
		{ID: "project-1", Top: 2710, Width: 520, Height: 180},
		{ID: "project-2", Top: 2900, Width: 520, Height: 180},
		{ID: "project-3", Top: 3090, Width: 520, Height: 180},
		{ID: "projects-preview", Top: 2520, Left: 560, Width: 680, Height: 640},
		{ID: "contact-intro", Top: 3400, Width: w, Height: 700},
		{ID: "contact-intro-line-0", Top: 3560, Width: w, Height: 90},
		{ID: "contact-intro-line-1", Top: 3670, Width: w, Height: 90},
		{ID: "contact-intro-line-2", Top: 3780, Width: w, Height: 90},
		{ID: "contact", Top: 4100, Width: w, Height: 1000},
		{ID: "footer", Top: 5100, Width: w, Height: 240},
	}
}

// Validate rejects traces the replay refuses to run.
func (t Trace) Validate() error {
	if t.Viewport.Width <= 0 || t.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport must have a positive size", ErrInvalidTrace)
	}
	if len(t.Steps) > MaxSteps {
		return fmt.Errorf("%w: %d steps exceeds %d", ErrInvalidTrace, len(t.Steps), MaxSteps)
	}
	if len(t.Sections) > MaxSections {
		return fmt.Errorf("%w: %d sections exceeds %d", ErrInvalidTrace, len(t.Sections), MaxSections)
	}
	seen := make(map[string]bool, len(t.Sections))
	for _, s := range t.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section without id", ErrInvalidTrace)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidTrace, s.ID)
		}
		seen[s.ID] = true
	}
	for i, s := range t.Steps {
		if s.Burst < 0 || s.WaitMS < 0 {
			return fmt.Errorf("%w: step %d has negative burst or wait", ErrInvalidTrace, i)
		}
		if s.Burst > MaxBurst {
			return fmt.Errorf("%w: step %d burst %d exceeds %d", ErrInvalidTrace, i, s.Burst, MaxBurst)
		}
		if s.WaitMS > MaxWaitMS {
			return fmt.Errorf("%w: step %d waits %dms, more than %dms", ErrInvalidTrace, i, s.WaitMS, MaxWaitMS)
		}
		if len(s.Remove) > MaxSections {
			return fmt.Errorf("%w: step %d removes more than %d sections", ErrInvalidTrace, i, MaxSections)
		}
		if s.Resize != nil && (s.Resize.Width <= 0 || s.Resize.Height <= 0) {
			return fmt.Errorf("%w: step %d resizes to an empty viewport", ErrInvalidTrace, i)
		}
	}
	return nil
}

// recorder owns the engine components of one replay and the events they emit.
type recorder struct {
	plan     Plan
	loop     *viewport.ManualLoop
	page     *viewport.Page
	events   []Event
	closers  []func()
	trackers map[string]*viewport.ProgressTracker
	reveals  []*viewport.Revealer
	spy      *viewport.ScrollSpy
	compact  bool
	navbar   struct{ scrolled, overHero bool }
}

// Replay runs the plan over trace on a virtual clock and records every change.
// All engine components are released before it returns.
func Replay(plan Plan, trace Trace) (Timeline, error) {
	if err := plan.Validate(); err != nil {
		return Timeline{}, err
	}
	if err := trace.Validate(); err != nil {
		return Timeline{}, err
	}
	sections := trace.Sections
	if len(sections) == 0 {
		sections = DefaultLayout()
	}

	loop := viewport.NewManualLoop()
	page := viewport.NewPage(loop, trace.Viewport)
	for _, s := range sections {
		page.Place(s.ID, viewport.Rect{Top: s.Top, Left: s.Left, Width: s.Width, Height: s.Height})
	}
	page.SetFragment(trace.Fragment)
	page.SetPreferences(viewport.Preferences{ReducedMotion: trace.ReducedMotion})

	r := &recorder{plan: plan, loop: loop, page: page, trackers: make(map[string]*viewport.ProgressTracker)}
	defer r.close()

	r.startSpy()
	r.startReveals()
	r.startProgress()
	r.startHeadline()
	r.startNavbar()

	frames := loop.Frame()
	for _, st := range trace.Steps {
		for _, id := range st.Remove {
			page.Remove(id)
		}
		if st.Resize != nil {
			page.Resize(*st.Resize)
		}
		burst := max(st.Burst, 1)
		for i := 0; i < burst; i++ {
			page.ScrollTo(st.ScrollY)
		}
		frames += loop.Frame()
		wait := st.WaitMS
		if wait == 0 {
			wait = frameMS
		}
		loop.Advance(ms(wait))
	}
	loop.Advance(settle)
	frames += loop.Frame()

	tl := Timeline{
		Events:     r.events,
		Fragment:   page.Fragment(),
		Frames:     frames,
		Recomputes: make(map[string]int, len(r.trackers)),
	}
	if r.spy != nil {
		tl.Active = r.spy.Active()
	}
	for name, t := range r.trackers {
		tl.Recomputes[name] = t.Recomputes()
	}
	for _, rev := range r.reveals {
		for _, id := range rev.Targets() {
			if rev.State(id) == viewport.Revealed && !slices.Contains(tl.Revealed, id) {
				tl.Revealed = append(tl.Revealed, id)
			}
		}
	}
	return tl, nil
}

func (r *recorder) record(kind, target, state string, value float64) {
	r.events = append(r.events, Event{
		AtMS:   r.loop.Now().Milliseconds(),
		Kind:   kind,
		Target: target,
		State:  state,
		Value:  value,
	})
}

func (r *recorder) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func (r *recorder) startSpy() {
	s := r.plan.Spy
	if len(s.IDs) == 0 {
		return
	}
	spy := viewport.NewScrollSpy(r.page, viewport.SpyOptions{
		IDs:        s.IDs,
		RootMargin: viewport.MustParseMargin(s.RootMargin()),
		Thresholds: s.Thresholds,
		BandTop:    s.BandTop,
		BandBottom: s.BandBottom,
	})
	sub := spy.Subscribe(func(id string) { r.record(KindActive, id, "", 0) })
	r.closers = append(r.closers, spy.Close, sub.Close)
	r.spy = spy
	spy.Start()
}

func (r *recorder) startReveals() {
	for _, rv := range r.plan.Reveals {
		rev := viewport.NewRevealer(r.page, rv.options())
		sub := rev.Subscribe(func(c viewport.RevealChange) {
			r.record(KindReveal, c.ID, c.State.String(), 0)
		})
		r.closers = append(r.closers, rev.Close, sub.Close)
		r.reveals = append(r.reveals, rev)
		for _, tr := range rv.Triggers {
			rev.Watch(tr.ID, tr.Targets...)
		}
	}
}

func (r *recorder) startProgress() {
	for _, p := range r.plan.Progress {
		opts := viewport.ProgressOptions{Exponent: p.Exponent}
		if p.Through {
			opts.Measure = viewport.ScrollThrough
		}
		name, section := p.Name, p.Section
		isHero := section == r.plan.Navbar.HeroID
		opts.OnProgress = func(v float64) {
			r.record(KindProgress, name, "", v)
			if isHero {
				r.heroTransform(section, v)
			}
		}
		t := viewport.NewProgressTracker(r.page, section, opts)
		r.trackers[name] = t
		r.closers = append(r.closers, t.Close)
	}
}

// heroTransform records the background scale for hero progress p.
func (r *recorder) heroTransform(section string, p float64) {
	zoom := r.plan.Zoom
	if r.compact {
		zoom = r.plan.CompactZoom
	}
	r.record(KindHero, section, "scale", zoom.Scale(p))
}

// startHeadline rolls the hero messages, holds the last one, then switches
// the hero into its compact layout and fades in the subtitle and button.
func (r *recorder) startHeadline() {
	h := r.plan.Headline
	if len(h.Messages) == 0 {
		return
	}
	ids := make([]string, len(h.Messages))
	for i := range h.Messages {
		ids[i] = fmt.Sprintf("headline-%d", i)
	}
	seq := viewport.NewSequencer(r.page, viewport.SequenceOptions{Delay: ms(h.IntervalMS)})
	last := len(ids) - 1
	seq.Run(ids, 0, func(i int, id string) {
		r.record(KindHeadline, id, "shown", float64(i))
		if i != last {
			return
		}
		tail := viewport.NewSequencer(r.page, viewport.SequenceOptions{Lead: ms(h.HoldMS + h.PauseMS)})
		tail.Run([]string{"compact"}, 0, func(int, string) {
			r.compact = true
			r.record(KindHeadline, "hero", "compact", 0)
			after := []struct {
				id    string
				delay int
			}{{"subtitle", h.SubtitleMS}, {"button", h.ButtonMS}}
			for _, a := range after {
				s := viewport.NewSequencer(r.page, viewport.SequenceOptions{Lead: ms(a.delay)})
				s.Run([]string{a.id}, 0, func(_ int, id string) { r.record(KindHeadline, id, "shown", 0) })
			}
		})
	})
}

// startNavbar tracks the header styling: scrolled past the threshold and
// overlapping the hero.
func (r *recorder) startNavbar() {
	nb := r.plan.Navbar
	update := func() {
		scrolled := r.page.ScrollY() > nb.ScrolledAfter
		over := false
		if hero, ok := r.page.Rect(nb.HeroID); ok {
			nav := viewport.Rect{Width: r.page.Viewport().Width, Height: r.plan.Spy.NavHeight}
			over = viewport.Overlaps(hero, nav)
		}
		if scrolled != r.navbar.scrolled {
			r.navbar.scrolled = scrolled
			r.record(KindNavbar, "scrolled", fmt.Sprint(scrolled), 0)
		}
		if over != r.navbar.overHero {
			r.navbar.overHero = over
			r.record(KindNavbar, "overHero", fmt.Sprint(over), 0)
		}
	}
	update()
	scroll := r.page.OnScroll(func(float64) { update() })
	resize := r.page.OnResize(func(viewport.Size) { update() })
	r.closers = append(r.closers, scroll.Close, resize.Close)
}
