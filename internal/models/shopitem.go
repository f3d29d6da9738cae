package models

import "strings"

// ShopItem is a sellable product in the shop catalog.
type ShopItem struct {
	BaseModel
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Image         string   `json:"image"`
	Category      string   `json:"category"`
	Tags          []string `gorm:"serializer:json" json:"tags"`
	InStock       bool     `gorm:"default:true" json:"inStock"`
	StockQuantity int      `gorm:"default:100" json:"stockQuantity"`
	SKU           *string  `gorm:"uniqueIndex" json:"sku,omitempty"`
}

// Validate reports the first constraint violation on required fields, or
// an empty string when the item is valid.
func (s *ShopItem) Validate() string {
	if strings.TrimSpace(s.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(s.Description) == "" {
		return "description is required"
	}
	if strings.TrimSpace(s.Category) == "" {
		return "category is required"
	}
	if s.Price < 0 {
		return "price must be non-negative"
	}
	if s.StockQuantity < 0 {
		return "stockQuantity must be non-negative"
	}
	return ""
}
