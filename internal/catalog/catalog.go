// Package catalog holds the immutable price list of redeemable items.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"rewards-ledger/internal/domain"
)

// Catalog is safe for concurrent use; it never changes after construction.
type Catalog struct {
	items  []domain.CatalogItem
	byCode map[string]domain.CatalogItem
}

type file struct {
	Items []domain.CatalogItem `yaml:"items"`
}

// New validates items and builds a Catalog keeping their order.
func New(items []domain.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items:  make([]domain.CatalogItem, 0, len(items)),
		byCode: make(map[string]domain.CatalogItem, len(items)),
	}
	for i, item := range items {
		item.Code = normalizeCode(item.Code)
		item.Name = strings.TrimSpace(item.Name)
		if item.Code == "" {
			return nil, fmt.Errorf("catalog item %d: code is required", i)
		}
		if item.Name == "" {
			return nil, fmt.Errorf("catalog item %q: name is required", item.Code)
		}
		if _, err := domain.PositiveCents(item.Price); err != nil {
			return nil, fmt.Errorf("catalog item %q: %w", item.Code, err)
		}
		if _, dup := c.byCode[item.Code]; dup {
			return nil, fmt.Errorf("catalog item %q: duplicate code", item.Code)
		}
		c.byCode[item.Code] = item
		c.items = append(c.items, item)
	}
	if len(c.items) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// Parse reads a YAML catalog of the form `items: [{code, name, price}]`.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Items)
}

// LoadFile reads and parses the catalog file at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New([]domain.CatalogItem{
		{Code: "order_2348", Name: "Vintage Cigar", Price: decimal.NewFromInt(20)},
		{Code: "order_2349", Name: "Snoop Cigar", Price: decimal.NewFromInt(7)},
		{Code: "order_2350", Name: "Snoop Dogg", Price: decimal.NewFromInt(3)},
		{Code: "order_2351", Name: "Evil Eye", Price: decimal.NewFromInt(5)},
		{Code: "order_2352", Name: "Star Notepad", Price: decimal.RequireFromString("2.50")},
		{Code: "order_2353", Name: "Jester Hat", Price: decimal.NewFromInt(2)},
		{Code: "order_2354", Name: "Pet Snake", Price: decimal.NewFromInt(2)},
		{Code: "order_2355", Name: "Lunar Snake", Price: decimal.RequireFromString("1.50")},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds an item by code. A leading slash is ignored so that chat
// commands such as "/order_2348" resolve directly.
func (c *Catalog) Lookup(code string) (domain.CatalogItem, bool) {
	item, ok := c.byCode[normalizeCode(code)]
	return item, ok
}

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []domain.CatalogItem {
	out := make([]domain.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

func normalizeCode(code string) string {
	return strings.TrimPrefix(strings.TrimSpace(code), "/")
}
