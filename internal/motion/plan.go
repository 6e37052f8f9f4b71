// Package motion holds the per-section choreography of the portfolio page and
// replays it over scroll traces with the viewport engine.
package motion

import (
	"fmt"
	"time"

	"github.com/iic-dev/portfolio/internal/viewport"
)

// Reveal configures one revealer: which triggers start it and how its targets
// are staggered.
type Reveal struct {
	Name          string    `json:"name"`
	Triggers      []Trigger `json:"triggers"`
	Thresholds    []float64 `json:"thresholds"`
	RootMargin    string    `json:"rootMargin,omitempty"`
	LeadMS        int       `json:"leadMs,omitempty"`
	DelayMS       int       `json:"delayMs,omitempty"`
	Cascade       bool      `json:"cascade,omitempty"`
	SmallViewport float64   `json:"smallViewport,omitempty"`
}

// Trigger reveals Targets (or itself) once ID becomes visible.
type Trigger struct {
	ID      string   `json:"id"`
	Targets []string `json:"targets,omitempty"`
}

// Progress configures a scroll progress tracker.
type Progress struct {
	Name     string  `json:"name"`
	Section  string  `json:"section"`
	Exponent float64 `json:"exponent"`
	// Through measures scroll travel through the section instead of how much
	// of it is on screen.
	Through bool `json:"through,omitempty"`
}

// Zoom maps hero progress onto a background scale.
type Zoom struct {
	Base     float64 `json:"base"`
	Max      float64 `json:"max"`
	Parallax float64 `json:"parallax"`
}

// Scale returns the zoom factor at progress p.
func (z Zoom) Scale(p float64) float64 { return viewport.Lerp(z.Base, z.Max, p) }

// Headline is the hero message roll followed by the compact intro.
type Headline struct {
	Messages      []string `json:"messages"`
	IntervalMS    int      `json:"intervalMs"`
	HoldMS        int      `json:"holdMs"`
	PauseMS       int      `json:"pauseMs"`
	SubtitleMS    int      `json:"subtitleMs"`
	ButtonMS      int      `json:"buttonMs"`
	WordStaggerMS int      `json:"wordStaggerMs"`
}

// Spy configures the navigation scrollspy.
type Spy struct {
	IDs        []string  `json:"ids"`
	NavHeight  float64   `json:"navHeight"`
	Thresholds []float64 `json:"thresholds"`
	BandTop    float64   `json:"bandTop"`
	BandBottom float64   `json:"bandBottom"`
}

// RootMargin leaves the navbar (plus a small gap) and the lower 55% of the
// viewport out of the active band.
func (s Spy) RootMargin() string {
	return fmt.Sprintf("-%gpx 0px -55%% 0px", s.NavHeight+8)
}

// Navbar thresholds for the header styling.
type Navbar struct {
	ScrolledAfter float64 `json:"scrolledAfter"`
	HeroID        string  `json:"heroId"`
	MobileWidth   float64 `json:"mobileWidth"`
}

// Plan is the full page choreography.
type Plan struct {
	Reveals     []Reveal   `json:"reveals"`
	Progress    []Progress `json:"progress"`
	Zoom        Zoom       `json:"zoom"`
	CompactZoom Zoom       `json:"compactZoom"`
	Headline    Headline   `json:"headline"`
	Spy         Spy        `json:"spy"`
	Navbar      Navbar     `json:"navbar"`
}

// HeroMessages is the message roll shown before the hero settles.
var HeroMessages = []string{
	"Technology",
	"From prototypes to production",
	"Passion into practice",
	"Here you'll find everything",
	"Hi, I'm Călin",
}

// DefaultPlan returns the choreography the page ships with.
func DefaultPlan() Plan {
	return Plan{
		Reveals: []Reveal{
			{
				Name: "about-cards",
				Triggers: []Trigger{
					{ID: "about-bio"}, {ID: "about-photo"}, {ID: "about-timeline"}, {ID: "about-skills"},
				},
				Thresholds: []float64{0.15},
				RootMargin: "0px 0px -10% 0px",
				DelayMS:    90,
				Cascade:    true,
			},
			{
				Name:       "about-bio-text",
				Triggers:   []Trigger{{ID: "about-bio-text"}},
				Thresholds: []float64{0.2},
			},
			{
				Name:       "about-skill-tags",
				Triggers:   []Trigger{{ID: "about-skill-tags"}},
				Thresholds: []float64{0.15},
			},
			{
				Name:       "projects-header",
				Triggers:   []Trigger{{ID: "projects", Targets: []string{"projects-header"}}},
				Thresholds: []float64{0.1},
				LeadMS:     150,
			},
			{
				Name: "projects-list",
				Triggers: []Trigger{{ID: "projects", Targets: []string{
					"project-0", "project-1", "project-2", "project-3",
				}}},
				Thresholds: []float64{0.1},
				DelayMS:    120,
			},
			{
				Name: "contact-intro",
				Triggers: []Trigger{{ID: "contact-intro", Targets: []string{
					"contact-intro-line-0", "contact-intro-line-1", "contact-intro-line-2",
				}}},
				Thresholds:    []float64{0.35},
				SmallViewport: 1024,
			},
			{
				Name:       "contact",
				Triggers:   []Trigger{{ID: "contact"}},
				Thresholds: []float64{0.2},
			},
		},
		Progress: []Progress{
			{Name: "hero-zoom", Section: "hero", Exponent: 1, Through: true},
			{Name: "projects-preview", Section: "projects-preview", Exponent: 2},
		},
		Zoom:        Zoom{Base: 1.10, Max: 1.25, Parallax: 0.15},
		CompactZoom: Zoom{Base: 1.05, Max: 2.0, Parallax: 0.15},
		Headline: Headline{
			Messages:      HeroMessages,
			IntervalMS:    1850,
			HoldMS:        100,
			PauseMS:       300,
			SubtitleMS:    500,
			ButtonMS:      900,
			WordStaggerMS: 80,
		},
		Spy: Spy{
			IDs:        []string{"about", "projects", "skills", "contact"},
			NavHeight:  64,
			Thresholds: []float64{0, 0.2, 0.4, 0.6, 0.8, 1},
			BandTop:    0.45,
			BandBottom: 0.55,
		},
		Navbar: Navbar{ScrolledAfter: 20, HeroID: "hero", MobileWidth: 768},
	}
}

// Validate checks that every margin parses and every reveal has a trigger.
func (p Plan) Validate() error {
	for _, r := range p.Reveals {
		if len(r.Triggers) == 0 {
			return fmt.Errorf("reveal %q: no triggers", r.Name)
		}
		if _, err := viewport.ParseMargin(r.RootMargin); err != nil {
			return fmt.Errorf("reveal %q: %w", r.Name, err)
		}
	}
	if _, err := viewport.ParseMargin(p.Spy.RootMargin()); err != nil {
		return fmt.Errorf("scrollspy: %w", err)
	}
	if p.Headline.IntervalMS < 0 {
		return fmt.Errorf("headline interval must not be negative")
	}
	return nil
}

func (r Reveal) options() viewport.RevealOptions {
	return viewport.RevealOptions{
		Thresholds: r.Thresholds,
		RootMargin: viewport.MustParseMargin(r.RootMargin),
		Sequence: viewport.SequenceOptions{
			Lead:          ms(r.LeadMS),
			Delay:         ms(r.DelayMS),
			SmallViewport: r.SmallViewport,
		},
		Cascade: r.Cascade,
	}
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
