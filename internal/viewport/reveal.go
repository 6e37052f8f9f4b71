package viewport

import (
	"fmt"
	"time"
)

// RevealState is the one-way lifecycle of a revealed element.
type RevealState int

const (
	Unrevealed RevealState = iota
	Revealing
	Revealed
)

func (s RevealState) String() string {
	switch s {
	case Unrevealed:
		return "unrevealed"
	case Revealing:
		return "revealing"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("RevealState(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON payloads.
func (s RevealState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Advance moves s forward to next. Moving backwards or staying put is refused
// and reported with ok=false.
func (s RevealState) Advance(next RevealState) (RevealState, bool) {
	if next <= s || next > Revealed {
		return s, false
	}
	return next, true
}

// SequenceOptions configure a Sequencer.
type SequenceOptions struct {
	// Lead postpones the first stage.
	Lead time.Duration
	// Delay is the spacing between consecutive stages.
	Delay time.Duration
	// SmallViewport is the widest viewport that skips the animation. Zero
	// disables the check.
	SmallViewport float64
}

// Sequencer fires staged transitions spaced by index × Delay.
type Sequencer struct {
	page  *Page
	lead  time.Duration
	delay time.Duration
	small float64
}

// NewSequencer builds a Sequencer that schedules on the page loop.
func NewSequencer(page *Page, opts SequenceOptions) *Sequencer {
	return &Sequencer{page: page, lead: opts.Lead, delay: opts.Delay, small: opts.SmallViewport}
}

// Skips reports whether motion is currently disabled, either by the reduced
// motion preference or by a small viewport.
func (s *Sequencer) Skips() bool {
	if s.page.Preferences().ReducedMotion {
		return true
	}
	return s.small > 0 && s.page.Viewport().Width <= s.small
}

// Run schedules apply for every target, stage i after Lead + (offset+i) × Delay.
// When motion is skipped every stage is applied before Run returns and the
// result is true. Scheduled stages cannot be withdrawn.
func (s *Sequencer) Run(targets []string, offset int, apply func(index int, id string)) bool {
	if s.Skips() {
		for i, id := range targets {
			apply(i, id)
		}
		return true
	}
	loop := s.page.Loop()
	for i, id := range targets {
		loop.AfterFunc(s.lead+time.Duration(offset+i)*s.delay, func() { apply(i, id) })
	}
	return false
}

// RevealOptions configure a Revealer.
type RevealOptions struct {
	Thresholds []float64
	RootMargin Margin
	Sequence   SequenceOptions
	// Cascade offsets each watched group by its registration order, so groups
	// that become visible together still appear one after another.
	Cascade bool
}

// RevealChange reports a state transition of one target.
type RevealChange struct {
	ID    string      `json:"id"`
	State RevealState `json:"state"`
}

type revealGroup struct {
	index   int
	targets []string
}

// Revealer pairs a one-shot Observer with a Sequencer. Targets move to
// Revealing when their trigger becomes visible and to Revealed when their
// stage fires.
type Revealer struct {
	obs    *Observer
	seq    *Sequencer
	obsSub *Subscription

	cascade bool
	groups  map[string]*revealGroup
	states  map[string]RevealState
	order   []string
	subs    registry[RevealChange]
	closed  bool
}

// NewRevealer creates a Revealer with nothing watched.
func NewRevealer(page *Page, opts RevealOptions) *Revealer {
	r := &Revealer{
		obs: NewObserver(page, ObserverOptions{
			Thresholds: opts.Thresholds,
			RootMargin: opts.RootMargin,
			Once:       true,
		}),
		seq:     NewSequencer(page, opts.Sequence),
		cascade: opts.Cascade,
		groups:  make(map[string]*revealGroup),
		states:  make(map[string]RevealState),
	}
	r.obsSub = r.obs.Subscribe(r.onEntry)
	return r
}

// Watch reveals targets once trigger becomes visible. Without targets the
// trigger reveals itself. A missing trigger is ignored. Triggers may be added
// at any time before Close, including after earlier groups have revealed.
func (r *Revealer) Watch(trigger string, targets ...string) {
	if r.closed || !r.obs.page.Has(trigger) {
		return
	}
	if _, ok := r.groups[trigger]; ok {
		return
	}
	if len(targets) == 0 {
		targets = []string{trigger}
	}
	r.groups[trigger] = &revealGroup{index: len(r.groups), targets: targets}
	for _, t := range targets {
		if _, ok := r.states[t]; !ok {
			r.states[t] = Unrevealed
			r.order = append(r.order, t)
		}
	}
	r.obs.Observe(trigger)
}

// Subscribe registers a handler for state changes.
func (r *Revealer) Subscribe(fn func(RevealChange)) *Subscription { return r.subs.add(fn) }

// State returns the state of target.
func (r *Revealer) State(target string) RevealState { return r.states[target] }

// Targets lists every watched target in the order it was first registered.
func (r *Revealer) Targets() []string { return append([]string(nil), r.order...) }

// Done reports whether every target has been revealed.
func (r *Revealer) Done() bool {
	for _, s := range r.states {
		if s != Revealed {
			return false
		}
	}
	return true
}

// Watching reports how many triggers are still observed.
func (r *Revealer) Watching() int { return r.obs.Watching() }

// Close disconnects the observer and drops handlers. Stages already
// scheduled still complete their state change.
func (r *Revealer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.obsSub.Close()
	r.obs.Disconnect()
	r.subs = registry[RevealChange]{}
}

func (r *Revealer) onEntry(e Entry) {
	if !e.Visible {
		return
	}
	g, ok := r.groups[e.ID]
	if !ok {
		return
	}
	delete(r.groups, e.ID)
	for _, t := range g.targets {
		r.advance(t, Revealing)
	}
	offset := 0
	if r.cascade {
		offset = g.index
	}
	r.seq.Run(g.targets, offset, func(_ int, id string) { r.advance(id, Revealed) })
}

func (r *Revealer) advance(id string, next RevealState) {
	cur := r.states[id]
	s, ok := cur.Advance(next)
	if !ok {
		return
	}
	r.states[id] = s
	if !r.closed {
		r.subs.emit(RevealChange{ID: id, State: s})
	}
}
