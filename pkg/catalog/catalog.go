// Package catalog loads the static product feed and answers lookups,
// searches and filters over it.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNotFound indicates no product has the requested id.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidID indicates a product id that is not an integer.
	ErrInvalidID = errors.New("invalid product id")
)

// ID is the canonical product identifier.
type ID int64

// ParseID coerces a string id, as found in URLs and form fields, to an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts both 7 and "7".
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = v
		return nil
	}
	v, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Details are the descriptive attributes shown on the product page.
type Details struct {
	Type   string `json:"type"`
	Brand  string `json:"brand"`
	Size   string `json:"size"`
	Gender string `json:"gender"`
	Color  string `json:"color"`
}

// Product is one record of the feed.
type Product struct {
	ID      ID       `json:"id"`
	Title   string   `json:"title"`
	Price   float64  `json:"price"`
	Images  []string `json:"images"`
	Details Details  `json:"details"`
	// Optional external purchase and seller contact links.
	AvitoLink  string `json:"avitoLink,omitempty"`
	SellerLink string `json:"connectSeller,omitempty"`
}

// Subtitle is the secondary card line: product type and size.
func (p Product) Subtitle() string {
	return strings.TrimSpace(fmt.Sprintf("%s, size: %s", p.Details.Type, p.Details.Size))
}

// Catalog is an immutable, ordered set of products.
type Catalog struct {
	products []Product
	byID     map[ID]int
}

// New indexes products. Duplicate ids are rejected.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: products,
		byID:     make(map[ID]int, len(products)),
	}
	for i, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Load decodes a JSON array of products.
func Load(r io.Reader) (*Catalog, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(products)
}

// LoadFile reads the feed at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Get returns the product with id.
func (c *Catalog) Get(id ID) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return c.products[i], nil
}

// List returns all products in feed order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }
