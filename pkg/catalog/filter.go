package catalog

import "strings"

// Query selects products the way the listing page does: a free text search
// plus checkbox groups and a price range. Empty groups match everything.
type Query struct {
	Text       string
	Sizes      []string
	Brands     []string
	Categories []string
	MinPrice   float64
	// MaxPrice of zero means no upper bound.
	MaxPrice float64
}

// Match reports whether p satisfies every part of q.
func (q Query) Match(p Product) bool {
	title := strings.ToLower(p.Title)
	subtitle := strings.ToLower(p.Subtitle())

	if text := strings.ToLower(q.Text); text != "" {
		if !strings.Contains(title, text) && !strings.Contains(subtitle, text) {
			return false
		}
	}

	sizes := strings.ReplaceAll(subtitle, "size:", "")
	if !anyContained(sizes, q.Sizes) {
		return false
	}
	if !anyContained(strings.TrimSpace(title), q.Brands) {
		return false
	}
	if !anyContained(subtitle, q.Categories) {
		return false
	}

	if p.Price < q.MinPrice {
		return false
	}
	if q.MaxPrice > 0 && p.Price > q.MaxPrice {
		return false
	}
	return true
}

// Filter returns the products matching q, in feed order.
func (c *Catalog) Filter(q Query) []Product {
	var out []Product
	for _, p := range c.products {
		if q.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func anyContained(haystack string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	for _, n := range needles {
		if strings.Contains(haystack, strings.ToLower(strings.TrimSpace(n))) {
			return true
		}
	}
	return false
}
