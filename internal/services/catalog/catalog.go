package catalog

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/mcoot/skylandly/internal/model"
)

// Catalog is an immutable, ordered collection of Skylanders keyed by case-folded name.
// It is safe for concurrent reads once constructed.
type Catalog struct {
	entities []model.Skylander
	names    []string
	index    map[string]int
}

// Fold returns the case-insensitive lookup key for a name
func Fold(s string) string {
	// A Caser carries state, so each call gets its own
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under case folding
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// New builds a Catalog from entities in load order
func New(entities []model.Skylander) (*Catalog, error) {
	if len(entities) == 0 {
		return nil, model.ErrEmptyCatalog
	}

	c := &Catalog{
		entities: make([]model.Skylander, 0, len(entities)),
		names:    make([]string, 0, len(entities)),
		index:    make(map[string]int, len(entities)),
	}
	for _, e := range entities {
		key := Fold(e.Name)
		if _, ok := c.index[key]; ok {
			return nil, fmt.Errorf("%w: %q", model.ErrDuplicateEntity, e.Name)
		}
		c.index[key] = len(c.entities)
		c.entities = append(c.entities, e)
		c.names = append(c.names, key)
	}
	return c, nil
}

// Names returns the case-folded names in load order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of Skylanders
func (c *Catalog) Len() int {
	return len(c.entities)
}

// Get looks up a Skylander by name, ignoring case
func (c *Catalog) Get(name string) (model.Skylander, error) {
	i, ok := c.index[Fold(name)]
	if !ok {
		return model.Skylander{}, fmt.Errorf("%w: %q", model.ErrUnknownEntity, name)
	}
	return c.entities[i], nil
}

// Exists reports whether a Skylander with the name is present
func (c *Catalog) Exists(name string) bool {
	_, ok := c.index[Fold(name)]
	return ok
}

// All returns every Skylander in load order
func (c *Catalog) All() []model.Skylander {
	out := make([]model.Skylander, len(c.entities))
	copy(out, c.entities)
	return out
}

// ByElement returns the Skylanders whose element matches, ignoring case
func (c *Catalog) ByElement(element string) []model.Skylander {
	return c.filter(model.AttributeElement, element)
}

// ByGender returns the Skylanders whose gender matches, ignoring case
func (c *Catalog) ByGender(gender string) []model.Skylander {
	return c.filter(model.AttributeGender, gender)
}

func (c *Catalog) filter(attr model.Attribute, value string) []model.Skylander {
	want := Fold(value)
	out := []model.Skylander{}
	for _, e := range c.entities {
		if Fold(e.Value(attr)) == want {
			out = append(out, e)
		}
	}
	return out
}
