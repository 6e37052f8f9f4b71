package motion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iic-dev/portfolio/internal/viewport"
)

func scrollDown(to, stride float64) []Step {
	var steps []Step
	for y := 0.0; y <= to; y += stride {
		steps = append(steps, Step{ScrollY: y})
	}
	return steps
}

func desktop() viewport.Size { return viewport.Size{Width: 1280, Height: 800} }

func TestDefaultPlanValidates(t *testing.T) {
	plan := DefaultPlan()
	require.NoError(t, plan.Validate())
	assert.Equal(t, "-72px 0px -55% 0px", plan.Spy.RootMargin())
	assert.InDelta(t, 1.175, plan.Zoom.Scale(0.5), 1e-9)

	plan.Reveals = append(plan.Reveals, Reveal{Name: "broken", Triggers: []Trigger{{ID: "x"}}, RootMargin: "1em"})
	assert.Error(t, plan.Validate())
}

func TestReplayFullScroll(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{Viewport: desktop(), Steps: scrollDown(4600, 200)})
	require.NoError(t, err)

	var active []string
	for _, e := range tl.Of(KindActive) {
		active = append(active, e.Target)
	}
	assert.Equal(t, []string{"about", "skills", "projects", "contact"}, active)
	assert.Equal(t, "contact", tl.Active)

	for _, id := range []string{
		"about-bio", "about-photo", "about-timeline", "about-skills", "about-bio-text",
		"about-skill-tags", "projects-header", "project-0", "project-3",
		"contact-intro-line-0", "contact-intro-line-2", "contact",
	} {
		assert.Contains(t, tl.Revealed, id)
	}

	history := map[string][]string{}
	for _, e := range tl.Of(KindReveal) {
		history[e.Target] = append(history[e.Target], e.State)
	}
	for id, states := range history {
		assert.Equal(t, []string{"revealing", "revealed"}, states, id)
	}
}

func TestReplayStaggerTiming(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{
		Viewport: desktop(),
		Steps:    []Step{{ScrollY: 2300, WaitMS: 1000}},
	})
	require.NoError(t, err)

	at := map[string]int64{}
	start := map[string]int64{}
	for _, e := range tl.Of(KindReveal) {
		switch e.State {
		case "revealing":
			start[e.Target] = e.AtMS
		case "revealed":
			at[e.Target] = e.AtMS
		}
	}
	require.Contains(t, at, "project-3")
	assert.Equal(t, int64(150), at["projects-header"]-start["projects-header"])
	assert.Equal(t, int64(0), at["project-0"]-start["project-0"])
	assert.Equal(t, int64(360), at["project-3"]-start["project-3"])
}

func TestReplayFragmentWinsOnLoad(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{Viewport: desktop(), Fragment: "#projects"})
	require.NoError(t, err)

	active := tl.Of(KindActive)
	require.NotEmpty(t, active)
	assert.Equal(t, "projects", active[0].Target)
	assert.Equal(t, int64(0), active[0].AtMS)
}

func TestReplayProgressLocksAndCoalesces(t *testing.T) {
	steps := []Step{
		{ScrollY: 1800, Burst: 40},
		{ScrollY: 2000, Burst: 40},
		{ScrollY: 2400, Burst: 40},
		{ScrollY: 1000, Burst: 40},
		{ScrollY: 2600, Burst: 40},
	}
	tl, err := Replay(DefaultPlan(), Trace{Viewport: desktop(), Steps: steps})
	require.NoError(t, err)

	// one initial recompute plus one per frame until the preview is fully in view
	assert.Equal(t, 4, tl.Recomputes["projects-preview"])
	var preview []Event
	for _, e := range tl.Of(KindProgress) {
		if e.Target == "projects-preview" {
			preview = append(preview, e)
		}
	}
	require.NotEmpty(t, preview)
	assert.Equal(t, 1.0, preview[len(preview)-1].Value)

	// the hero has been scrolled past in the first step
	assert.Equal(t, 2, tl.Recomputes["hero-zoom"])
	hero := tl.Of(KindHero)
	require.Len(t, hero, 2)
	assert.InDelta(t, 1.10, hero[0].Value, 1e-9)
	assert.InDelta(t, 1.25, hero[1].Value, 1e-9)
}

func TestReplayHeadline(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{Viewport: desktop()})
	require.NoError(t, err)

	events := tl.Of(KindHeadline)
	require.Len(t, events, len(HeroMessages)+3)
	assert.Equal(t, int64(0), events[0].AtMS)
	assert.Equal(t, int64(4*1850), events[4].AtMS)
	assert.Equal(t, "compact", events[5].State)
	assert.Equal(t, int64(4*1850+400), events[5].AtMS)
	assert.Equal(t, "subtitle", events[6].Target)
	assert.Equal(t, int64(4*1850+400+500), events[6].AtMS)
	assert.Equal(t, "button", events[7].Target)
}

func TestReplayHeroZoomAfterCompact(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{
		Viewport: desktop(),
		Steps: []Step{
			{ScrollY: 0, WaitMS: 8000},
			{ScrollY: 400},
		},
	})
	require.NoError(t, err)

	hero := tl.Of(KindHero)
	require.NotEmpty(t, hero)
	assert.InDelta(t, 1.10, hero[0].Value, 1e-9)

	last := hero[len(hero)-1]
	assert.GreaterOrEqual(t, last.AtMS, int64(4*1850+400))
	// halfway through the hero on the compact zoom: 1.05 + (2.0-1.05)*0.5
	assert.InDelta(t, 1.525, last.Value, 1e-9)
}

func TestReplayReducedMotion(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{
		Viewport:      desktop(),
		ReducedMotion: true,
		Steps:         []Step{{ScrollY: 2300}},
	})
	require.NoError(t, err)

	for _, e := range tl.Of(KindHeadline) {
		assert.Equal(t, int64(0), e.AtMS, e.Target)
	}
	for _, e := range tl.Of(KindReveal) {
		if e.Target == "project-3" && e.State == "revealed" {
			assert.Equal(t, int64(0), e.AtMS)
		}
	}
	assert.Contains(t, tl.Revealed, "project-3")
}

func TestReplayNavbar(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{
		Viewport: desktop(),
		Steps:    []Step{{ScrollY: 10}, {ScrollY: 200}, {ScrollY: 900}, {ScrollY: 0}},
	})
	require.NoError(t, err)

	var got []string
	for _, e := range tl.Of(KindNavbar) {
		got = append(got, e.Target+"="+e.State)
	}
	assert.Equal(t, []string{
		"overHero=true",
		"scrolled=true",
		"overHero=false",
		"scrolled=false",
		"overHero=true",
	}, got)
}

func TestReplayCustomLayoutMissingSections(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{
		Viewport: desktop(),
		Sections: []Section{{ID: "contact", Top: 0, Width: 1280, Height: 900}},
		Steps:    []Step{{ScrollY: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "contact", tl.Active)
	assert.Equal(t, []string{"contact"}, tl.Revealed)
}

func TestReplayRemovedSection(t *testing.T) {
	tl, err := Replay(DefaultPlan(), Trace{
		Viewport: desktop(),
		Steps: []Step{
			{ScrollY: 0, Remove: []string{"projects"}},
			{ScrollY: 2300, WaitMS: 1000},
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, tl.Revealed, "projects-header")
	assert.NotContains(t, tl.Revealed, "project-3")
	for _, e := range tl.Of(KindActive) {
		assert.NotEqual(t, "projects", e.Target)
	}
}

func TestReplayRejectsInvalidTrace(t *testing.T) {
	testCases := []struct {
		name  string
		trace Trace
	}{
		{"empty viewport", Trace{}},
		{"duplicate section", Trace{Viewport: desktop(), Sections: []Section{{ID: "a"}, {ID: "a"}}}},
		{"unnamed section", Trace{Viewport: desktop(), Sections: []Section{{}}}},
		{"negative wait", Trace{Viewport: desktop(), Steps: []Step{{WaitMS: -1}}}},
		{"empty resize", Trace{Viewport: desktop(), Steps: []Step{{Resize: &viewport.Size{}}}}},
		{"too many steps", Trace{Viewport: desktop(), Steps: make([]Step, MaxSteps+1)}},
		{"burst too large", Trace{Viewport: desktop(), Steps: []Step{{ScrollY: 100, Burst: MaxBurst + 1}}}},
		{"wait overflows clock", Trace{Viewport: desktop(), Steps: []Step{{WaitMS: 9_000_000_000_000_000}}}},
		{"too many removals", Trace{Viewport: desktop(), Steps: []Step{{Remove: make([]string, MaxSections+1)}}}},
		{"wait too long", Trace{Viewport: desktop(), Steps: []Step{{WaitMS: MaxWaitMS + 1}}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Replay(DefaultPlan(), tc.trace)
			assert.True(t, errors.Is(err, ErrInvalidTrace), "got %v", err)
		})
	}
}
