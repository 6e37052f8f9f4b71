package gallery

import "iter"

// Catalog is an ordered, read-only set of projects.
type Catalog struct {
	projects []Project
	index    map[string]int
}

// NewCatalog indexes projects by id. Later duplicates are ignored.
func NewCatalog(projects ...Project) *Catalog {
	c := &Catalog{index: make(map[string]int, len(projects))}
	for _, p := range projects {
		if _, dup := c.index[p.ID]; dup || p.ID == "" {
			continue
		}
		c.index[p.ID] = len(c.projects)
		c.projects = append(c.projects, p)
	}
	return c
}

// Get returns the project with id.
func (c *Catalog) Get(id string) (Project, error) {
	i, ok := c.index[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return c.projects[i], nil
}

// Len is the number of projects.
func (c *Catalog) Len() int { return len(c.projects) }

// At returns the project at position i, clamped into range. The showcase
// highlights one project at a time and never points past either end.
func (c *Catalog) At(i int) (Project, bool) {
	if len(c.projects) == 0 {
		return Project{}, false
	}
	return c.projects[ClampIndex(i, len(c.projects))], true
}

// All yields the projects in showcase order.
func (c *Catalog) All() iter.Seq2[int, Project] {
	return func(yield func(int, Project) bool) {
		for i, p := range c.projects {
			if !yield(i, p) {
				return
			}
		}
	}
}

// IDs lists the project ids in order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.projects))
	for i, p := range c.projects {
		ids[i] = p.ID
	}
	return ids
}
