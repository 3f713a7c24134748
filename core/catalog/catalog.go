// Package catalog - Pipe material catalog
// Absolute roughness by material and condition, used by front-ends to turn a
// material name into PipeGeometry.RoughnessM.
package catalog

import (
	"sort"
	"strings"

	"steam-toolbox/internal/errors"
)

// Condition is the surface state of the pipe wall
type Condition int

const (
	// ConditionNew - clean, as-installed pipe
	ConditionNew Condition = iota
	// ConditionAged - service-worn pipe with scale or corrosion
	ConditionAged
)

// String returns string representation
func (c Condition) String() string {
	switch c {
	case ConditionNew:
		return "new"
	case ConditionAged:
		return "aged"
	default:
		return "unknown"
	}
}

// ParseCondition parses "new" or "aged"; "" is new
func ParseCondition(s string) (Condition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "new", "clean":
		return ConditionNew, nil
	case "aged", "old", "corroded":
		return ConditionAged, nil
	}
	return ConditionNew, errors.InvalidInput("condition", s, "must be new or aged")
}

// MaterialEntry is a catalog entry for a pipe material
type MaterialEntry struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RoughnessM  float64 `json:"roughness_m"`

	// AgedRoughnessM is the roughness after years of service; 0 means same as new
	AgedRoughnessM float64 `json:"aged_roughness_m,omitempty"`

	Aliases []string `json:"aliases,omitempty"`
}

// Roughness returns the absolute roughness for the given condition
func (e *MaterialEntry) Roughness(c Condition) float64 {
	if c == ConditionAged && e.AgedRoughnessM > 0 {
		return e.AgedRoughnessM
	}
	return e.RoughnessM
}

// Catalog is the pipe material catalog
type Catalog struct {
	entries map[string]*MaterialEntry
	aliases map[string]string
}

// NewCatalog creates a new catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*MaterialEntry),
		aliases: make(map[string]string),
	}
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	return strings.ReplaceAll(n, " ", "-")
}

// Register adds a material to the catalog
func (c *Catalog) Register(entry MaterialEntry) {
	key := normalize(entry.Name)
	c.entries[key] = &entry
	for _, a := range entry.Aliases {
		c.aliases[normalize(a)] = key
	}
}

// Get returns a material entry by name or alias
func (c *Catalog) Get(name string) (*MaterialEntry, bool) {
	key := normalize(name)
	if canonical, ok := c.aliases[key]; ok {
		key = canonical
	}
	entry, ok := c.entries[key]
	return entry, ok
}

// Roughness returns the absolute roughness in metres for a material
func (c *Catalog) Roughness(name string, cond Condition) (float64, error) {
	entry, ok := c.Get(name)
	if !ok {
		return 0, errors.NotFound("material", name)
	}
	return entry.Roughness(cond), nil
}

// List returns all materials sorted by name
func (c *Catalog) List() []MaterialEntry {
	out := make([]MaterialEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered materials
func (c *Catalog) Len() int {
	return len(c.entries)
}
