package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFile("testdata/products.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestLoadCoercesIDs(t *testing.T) {
	c := loadTestCatalog(t)
	if c.Len() != 3 {
		t.Fatalf("expected 3 products, got %d", c.Len())
	}
	p, err := c.Get(2)
	if err != nil {
		t.Fatalf("get 2: %v", err)
	}
	if p.Title != "Adidas Superstar" || p.SellerLink == "" || p.AvitoLink != "" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if _, err := c.Get(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadRejectsDuplicates(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"id":1},{"id":"1"}]`))
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 7 ")
	if err != nil || id != 7 {
		t.Fatalf("parse: %v %v", id, err)
	}
	if id.String() != "7" {
		t.Fatalf("unexpected string %q", id.String())
	}
	if _, err := ParseID("seven"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func titles(ps []Product) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	c := loadTestCatalog(t)
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"empty query", Query{}, []string{"Nike Air Max", "Adidas Superstar", "Stone Island Hoodie"}},
		{"search title", Query{Text: "AIR"}, []string{"Nike Air Max"}},
		{"search subtitle", Query{Text: "hoodie"}, []string{"Stone Island Hoodie"}},
		{"size", Query{Sizes: []string{"38", "L"}}, []string{"Adidas Superstar", "Stone Island Hoodie"}},
		{"brand", Query{Brands: []string{" nike "}}, []string{"Nike Air Max"}},
		{"category", Query{Categories: []string{"Sneakers"}}, []string{"Nike Air Max", "Adidas Superstar"}},
		{"price range", Query{MinPrice: 9000, MaxPrice: 20000}, []string{"Nike Air Max"}},
		{"min only", Query{MinPrice: 20000}, []string{"Stone Island Hoodie"}},
		{"combined", Query{Categories: []string{"sneakers"}, MaxPrice: 10000}, []string{"Adidas Superstar"}},
		{"no match", Query{Text: "boots"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(c.Filter(tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
