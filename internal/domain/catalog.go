// internal/domain/catalog.go
package domain

import "github.com/shopspring/decimal"

// CatalogItem is a redeemable item. Items are configuration, not state.
type CatalogItem struct {
	Code  string          `json:"code" yaml:"code"`
	Name  string          `json:"name" yaml:"name"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}
