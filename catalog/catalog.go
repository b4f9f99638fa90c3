// Package catalog defines merchandise item variations and the category
// tables they are enumerated from.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyCatalog is returned when a catalog has no groups or no types.
	ErrEmptyCatalog = errors.New("catalog has no item types")
	// ErrDuplicateType is returned when an item type is listed in more than one group.
	ErrDuplicateType = errors.New("item type listed in more than one group")
)

// Variation is one concrete combination of item attributes to be labeled.
// Empty fields mean the attribute does not apply to the item's group.
type Variation struct {
	Type   string `json:"type" yaml:"type"`
	Design string `json:"design,omitempty" yaml:"design,omitempty"`
	Gender string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Size   string `json:"size,omitempty" yaml:"size,omitempty"`
}

// Key joins all fields with underscores, keeping empty fields as empty segments.
func (v Variation) Key() string {
	return strings.Join([]string{v.Type, v.Design, v.Gender, v.Size}, "_")
}

// Group maps a broad item-type group to the attribute domains that apply to
// it. An empty domain means the attribute is left blank for the group.
type Group struct {
	Name    string   `yaml:"name"`
	Types   []string `yaml:"types"`
	Genders []string `yaml:"genders,omitempty"`
	Sizes   []string `yaml:"sizes,omitempty"`
	Designs []string `yaml:"designs,omitempty"`
}

// Catalog is an ordered list of groups.
type Catalog struct {
	Groups []Group `yaml:"groups"`
}

// Default returns the built-in merch catalog.
func Default() *Catalog {
	return &Catalog{Groups: []Group{
		{
			Name:    "shirt",
			Types:   []string{"Shirt", "Tank"},
			Genders: []string{"mens", "womens"},
			Sizes:   []string{"S", "M", "L", "XL", "XXL", "3XL"},
			Designs: []string{"O"},
		},
		{
			Name:  "necklace",
			Types: []string{"Necklace", "Choker"},
			Sizes: []string{"S", "L"},
		},
		{
			Name:  "misc",
			Types: []string{"Bottle", "Keychain", "Earring", "RoundCoaster", "SquareCoaster"},
		},
	}}
}

// Load reads a catalog from a YAML (or JSON) file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog data.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every type belongs to exactly one group and that no
// domain list contains blanks or repeats.
func (c *Catalog) Validate() error {
	if len(c.Groups) == 0 {
		return ErrEmptyCatalog
	}
	owner := make(map[string]string)
	total := 0
	for i, g := range c.Groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		for _, list := range []struct {
			field  string
			values []string
		}{
			{"types", g.Types},
			{"genders", g.Genders},
			{"sizes", g.Sizes},
			{"designs", g.Designs},
		} {
			if err := checkList(list.values); err != nil {
				return fmt.Errorf("group %s %s: %w", name, list.field, err)
			}
		}
		for _, t := range g.Types {
			if prev, ok := owner[t]; ok {
				return fmt.Errorf("%w: %q in groups %s and %s", ErrDuplicateType, t, prev, name)
			}
			owner[t] = name
		}
		total += len(g.Types)
	}
	if total == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

func checkList(values []string) error {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return errors.New("blank entry")
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("duplicate entry %q", v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// GroupOf returns the group that itemType belongs to.
func (c *Catalog) GroupOf(itemType string) (Group, bool) {
	for _, g := range c.Groups {
		for _, t := range g.Types {
			if t == itemType {
				return g, true
			}
		}
	}
	return Group{}, false
}

// Types lists all item types in catalog order.
func (c *Catalog) Types() []string {
	var out []string
	for _, g := range c.Groups {
		out = append(out, g.Types...)
	}
	return out
}
