package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/skylandly/internal/model"
)

// attributes is the per-entry value shape of the catalog file
type attributes struct {
	Element string `yaml:"element"`
	Gender  string `yaml:"gender"`
	Game    string `yaml:"game"`
	Species string `yaml:"species"`
}

// LoadFile reads a catalog file. The file is a JSON (or YAML) mapping from display name to
// attributes, e.g. {"Spyro": {"element": "Magic", ...}}. File order becomes load order.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog file contents, keeping the mapping's key order
func Parse(data []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, model.ErrEmptyCatalog
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.New("failed to parse catalog: top level must be a mapping")
	}

	entities := make([]model.Skylander, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		var attrs attributes
		if err := doc.Content[i+1].Decode(&attrs); err != nil {
			return nil, fmt.Errorf("failed to parse catalog entry %q: %w", name, err)
		}
		entities = append(entities, model.Skylander{
			Name:    name,
			Element: attrs.Element,
			Gender:  attrs.Gender,
			Game:    attrs.Game,
			Species: attrs.Species,
		})
	}
	return New(entities)
}
