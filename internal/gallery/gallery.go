// Package gallery holds the project catalogue and the navigation rules of the
// project modal: image fallback, wrapping arrow keys, and the thumbnail strip.
package gallery

import (
	"errors"
	"math"
)

// ErrNotFound is returned for an unknown project id.
var ErrNotFound = errors.New("project not found")

// Links point at a live deployment and a source repository. Either may be empty.
type Links struct {
	Live string `json:"live,omitempty"`
	Repo string `json:"repo,omitempty"`
}

// Project is one showcase entry.
type Project struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Href        string   `json:"href"`
	Device      string   `json:"device"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Links       Links    `json:"links"`
}

// Frames lists the images shown in the modal. Without a gallery the cover
// image stands in; without either the list is empty.
func (p Project) Frames() []string {
	if len(p.Images) > 0 {
		return p.Images
	}
	if p.Image != "" {
		return []string{p.Image}
	}
	return nil
}

// Keys understood by Navigate.
const (
	KeyOpen  = "Open"
	KeyNext  = "ArrowRight"
	KeyPrev  = "ArrowLeft"
	KeyClose = "Escape"
)

// View is the modal state after a key press.
type View struct {
	Project string `json:"project"`
	Open    bool   `json:"open"`
	Index   int    `json:"index"`
	Count   int    `json:"count"`
	Image   string `json:"image,omitempty"`
}

// Navigate applies key to the modal showing image index of p. Opening always
// starts at the first image; arrows wrap around; unknown keys leave the index
// where it is after clamping.
func Navigate(p Project, index int, key string) View {
	frames := p.Frames()
	n := len(frames)
	v := View{Project: p.ID, Open: true, Count: n}

	switch key {
	case KeyClose:
		v.Open = false
		v.Index = ClampIndex(index, n)
		return v
	case KeyOpen:
		index = 0
	case KeyNext:
		index = wrap(index+1, n)
	case KeyPrev:
		index = wrap(index-1, n)
	}
	v.Index = ClampIndex(index, n)
	if n > 0 {
		v.Image = frames[v.Index]
	}
	return v
}

// ClampIndex keeps i inside [0, n).
func ClampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func wrap(i, n int) int {
	n = max(n, 1)
	return ((i % n) + n) % n
}

// Strip is the geometry of the horizontally scrolling thumbnail row.
type Strip struct {
	ScrollLeft  float64 `json:"scrollLeft" form:"scrollLeft"`
	ClientWidth float64 `json:"clientWidth" form:"clientWidth"`
	ScrollWidth float64 `json:"scrollWidth" form:"scrollWidth"`
}

const stripSlack = 2

// CanScrollLeft reports whether the left arrow should be shown.
func (s Strip) CanScrollLeft() bool { return s.ScrollLeft > stripSlack }

// CanScrollRight reports whether the right arrow should be shown.
func (s Strip) CanScrollRight() bool {
	return s.ScrollLeft+s.ClientWidth < s.ScrollWidth-stripSlack
}

// Delta is the distance one arrow click scrolls.
func (s Strip) Delta() float64 { return math.Max(200, math.Round(s.ClientWidth*0.8)) }

// Scroll moves the strip one step in dir (negative is left), clamped to the
// scrollable range.
func (s Strip) Scroll(dir int) Strip {
	switch {
	case dir < 0:
		s.ScrollLeft -= s.Delta()
	case dir > 0:
		s.ScrollLeft += s.Delta()
	}
	limit := math.Max(0, s.ScrollWidth-s.ClientWidth)
	s.ScrollLeft = math.Min(math.Max(s.ScrollLeft, 0), limit)
	return s
}
