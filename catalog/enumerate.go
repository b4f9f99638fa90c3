package catalog

// Variations returns every valid variation in catalog order: groups, then
// types, designs, genders and sizes. Each call builds a fresh slice.
func (c *Catalog) Variations() []Variation {
	out := make([]Variation, 0, c.Count())
	for _, g := range c.Groups {
		out = append(out, g.variations()...)
	}
	return out
}

// Count is the number of variations Variations returns.
func (c *Catalog) Count() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Types) * span(g.Designs) * span(g.Genders) * span(g.Sizes)
	}
	return n
}

// Contains reports whether v is one of the catalog's variations.
func (c *Catalog) Contains(v Variation) bool {
	g, ok := c.GroupOf(v.Type)
	if !ok {
		return false
	}
	return inDomain(g.Designs, v.Design) && inDomain(g.Genders, v.Gender) && inDomain(g.Sizes, v.Size)
}

func (g Group) variations() []Variation {
	var out []Variation
	for _, t := range g.Types {
		for _, d := range orBlank(g.Designs) {
			for _, gender := range orBlank(g.Genders) {
				for _, s := range orBlank(g.Sizes) {
					out = append(out, Variation{Type: t, Design: d, Gender: gender, Size: s})
				}
			}
		}
	}
	return out
}

// orBlank turns an empty domain into a single blank value so the product
// still yields one variation for it.
func orBlank(domain []string) []string {
	if len(domain) == 0 {
		return []string{""}
	}
	return domain
}

func span(domain []string) int {
	if len(domain) == 0 {
		return 1
	}
	return len(domain)
}

func inDomain(domain []string, v string) bool {
	if len(domain) == 0 {
		return v == ""
	}
	for _, d := range domain {
		if d == v {
			return true
		}
	}
	return false
}
