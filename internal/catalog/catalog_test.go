package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-ledger/internal/domain"
)

func TestDefault(t *testing.T) {
	c := Default()
	items := c.Items()
	require.Len(t, items, 8)
	assert.Equal(t, "order_2348", items[0].Code)

	item, ok := c.Lookup("/order_2352")
	require.True(t, ok)
	assert.Equal(t, "Star Notepad", item.Name)
	assert.Equal(t, "2.50", item.Price.StringFixed(2))

	_, ok = c.Lookup("order_9999")
	assert.False(t, ok)
}

func TestItemsReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Name = "changed"

	item, _ := c.Lookup("order_2348")
	assert.Equal(t, "Vintage Cigar", item.Name)
}

func TestParse(t *testing.T) {
	data := []byte(`
items:
  - code: hat
    name: Jester Hat
    price: 2
  - code: notepad
    name: Star Notepad
    price: "2.5"
`)
	c, err := Parse(data)
	require.NoError(t, err)

	item, ok := c.Lookup("notepad")
	require.True(t, ok)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("2.5")))
}

func TestNewRejectsInvalidItems(t *testing.T) {
	price := decimal.NewFromInt(1)
	tests := []struct {
		name  string
		items []domain.CatalogItem
	}{
		{"empty", nil},
		{"missing code", []domain.CatalogItem{{Name: "a", Price: price}}},
		{"missing name", []domain.CatalogItem{{Code: "a", Price: price}}},
		{"zero price", []domain.CatalogItem{{Code: "a", Name: "a", Price: decimal.Zero}}},
		{"too precise", []domain.CatalogItem{{Code: "a", Name: "a", Price: decimal.RequireFromString("1.001")}}},
		{"duplicate", []domain.CatalogItem{{Code: "a", Name: "a", Price: price}, {Code: "/a", Name: "b", Price: price}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.items)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - {code: x, name: X, price: 3}\n"), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Items(), 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
