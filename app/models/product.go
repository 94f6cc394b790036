// Package models holds the wire-level shapes exchanged with the webStore
// backend. These are ephemeral, possibly-stale copies: the backend is
// authoritative for every persisted entity, and nothing here is assumed
// valid beyond the current view.
package models

import "strings"

// Canonical product status values used on write paths. The backend has been
// observed returning both upper- and lower-case labels on read paths, so
// comparisons must go through StatusEquals rather than ==.
const (
	ProductAvailable  = "AVAILABLE"
	ProductOutOfStock = "OUT_OF_STOCK"
	ProductComingSoon = "COMING_SOON"
	ProductInactive   = "INACTIVE"
)

// ProductStatuses lists the canonical product statuses in display order.
var ProductStatuses = []string{
	ProductAvailable,
	ProductOutOfStock,
	ProductComingSoon,
	ProductInactive,
}

// Product is the product DTO.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PhotoPath     string  `json:"photoPath"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Stock         int     `json:"stock"`
	Status        string  `json:"status"`
	Discount      int     `json:"discount,omitempty"`
	Promo         bool    `json:"promo"`
}

// StatusEquals compares two status values ignoring case, absorbing the
// casing inconsistency between write and read paths.
func StatusEquals(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidProductStatus reports whether s names a known product status in any
// casing.
func ValidProductStatus(s string) bool {
	for _, known := range ProductStatuses {
		if StatusEquals(s, known) {
			return true
		}
	}
	return false
}

// NormalizeForWrite applies the client-side write invariants: the promo
// flag is forced on whenever a discount is set, and the current price never
// exceeds the original price. The backend recomputes the discounted price
// itself; this only keeps the outgoing payload coherent.
func (p *Product) NormalizeForWrite() {
	if p.Discount > 0 {
		p.Promo = true
	}
	if p.OriginalPrice > 0 && p.Price > p.OriginalPrice {
		p.Price = p.OriginalPrice
	}
}

// DiscountRequest applies a percentage discount to one product.
type DiscountRequest struct {
	Discount int `json:"discount"`
}

// CategoryDiscountRequest applies a percentage discount to every product in
// a category.
type CategoryDiscountRequest struct {
	CategoryName string `json:"categoryName"`
	Discount     int    `json:"discount"`
}

// StatusRequest changes the status of a product or an order.
type StatusRequest struct {
	Status string `json:"status"`
}
