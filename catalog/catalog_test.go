package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVariationsCount(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got := c.Variations()
	// shirt: 2 types x 1 design x 2 genders x 6 sizes, necklace: 2 x 2, misc: 5
	if want := 24 + 4 + 5; len(got) != want {
		t.Fatalf("len(Variations()) = %d, want %d", len(got), want)
	}
	if c.Count() != len(got) {
		t.Fatalf("Count() = %d, want %d", c.Count(), len(got))
	}

	seen := make(map[Variation]bool)
	for _, v := range got {
		if seen[v] {
			t.Fatalf("duplicate variation %+v", v)
		}
		seen[v] = true
		if !c.Contains(v) {
			t.Errorf("Contains(%+v) = false", v)
		}
	}

	for _, want := range []Variation{
		{Type: "Shirt", Design: "O", Gender: "mens", Size: "M"},
		{Type: "Tank", Design: "O", Gender: "womens", Size: "3XL"},
		{Type: "Choker", Size: "L"},
		{Type: "SquareCoaster"},
	} {
		if !seen[want] {
			t.Errorf("missing variation %+v", want)
		}
	}
}

func TestVariationsMiscSingleEntry(t *testing.T) {
	n := 0
	for _, v := range Default().Variations() {
		if v.Type == "Bottle" {
			n++
			if v != (Variation{Type: "Bottle"}) {
				t.Errorf("Bottle variation = %+v, want only type set", v)
			}
		}
	}
	if n != 1 {
		t.Fatalf("Bottle variations = %d, want 1", n)
	}
}

func TestVariationsStableAndIdempotent(t *testing.T) {
	c := Default()
	first := c.Variations()
	second := c.Variations()
	if len(first) != len(second) {
		t.Fatalf("second call returned %d variations, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("variation %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0] != (Variation{Type: "Shirt", Design: "O", Gender: "mens", Size: "S"}) {
		t.Errorf("first variation = %+v", first[0])
	}
	if last := first[len(first)-1]; last != (Variation{Type: "SquareCoaster"}) {
		t.Errorf("last variation = %+v", last)
	}
}

func TestCountFormula(t *testing.T) {
	c := &Catalog{Groups: []Group{
		{Name: "a", Types: []string{"A", "B", "C"}, Genders: []string{"x", "y"}, Sizes: []string{"1", "2", "3"}, Designs: []string{"d1", "d2"}},
		{Name: "b", Types: []string{"D"}, Sizes: []string{"1", "2"}},
		{Name: "c", Types: []string{"E", "F"}},
	}}
	want := 3*2*3*2 + 1*2 + 2
	if got := len(c.Variations()); got != want {
		t.Fatalf("len(Variations()) = %d, want %d", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr error
	}{
		{
			name:    "empty catalog",
			catalog: Catalog{},
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "groups without types",
			catalog: Catalog{Groups: []Group{{Name: "a"}}},
			wantErr: ErrEmptyCatalog,
		},
		{
			name: "type in two groups",
			catalog: Catalog{Groups: []Group{
				{Name: "shirt", Types: []string{"Shirt", "Bottle"}},
				{Name: "misc", Types: []string{"Bottle"}},
			}},
			wantErr: ErrDuplicateType,
		},
		{
			name: "duplicate size",
			catalog: Catalog{Groups: []Group{
				{Name: "shirt", Types: []string{"Shirt"}, Sizes: []string{"M", "M"}},
			}},
		},
		{
			name: "blank gender",
			catalog: Catalog{Groups: []Group{
				{Name: "shirt", Types: []string{"Shirt"}, Genders: []string{" "}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.yaml")
		data := "groups:\n  - name: shirt\n    types: [Hoodie]\n    genders: [unisex]\n    sizes: [M, L]\n  - name: misc\n    types: [Sticker]\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := c.Count(); got != 3 {
			t.Fatalf("Count() = %d, want 3", got)
		}
		if g, ok := c.GroupOf("Sticker"); !ok || g.Name != "misc" {
			t.Fatalf("GroupOf(Sticker) = %+v, %v", g, ok)
		}
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "items.json")
		data := `{"groups": [{"name": "necklace", "types": ["Necklace"], "sizes": ["S", "L"]}]}`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := c.Variations(); len(got) != 2 || got[1] != (Variation{Type: "Necklace", Size: "L"}) {
			t.Fatalf("Variations() = %+v", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("groups: [this is: not valid"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})
}

func TestVariationKey(t *testing.T) {
	if got := (Variation{Type: "Necklace", Size: "S"}).Key(); got != "Necklace___S" {
		t.Fatalf("Key() = %q", got)
	}
}

func TestExampleCatalogMatchesDefault(t *testing.T) {
	c, err := Load(filepath.Join("..", "catalog.example.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, want := c.Variations(), Default().Variations()
	if len(got) != len(want) {
		t.Fatalf("example catalog has %d variations, default %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("variation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
