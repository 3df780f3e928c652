package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Names are kept in the three shop languages;
// when a product has variants, stock lives on the variants.
type Product struct {
	ID                      string          `json:"id"`
	NameEN                  string          `json:"name_en"`
	NameAR                  string          `json:"name_ar"`
	NameFR                  string          `json:"name_fr"`
	Description             *string         `json:"description,omitempty"`
	Category                string          `json:"category"`
	Price                   decimal.Decimal `json:"price"`
	Stock                   int             `json:"stock_quantity"`
	RequiresAgeVerification bool            `json:"requires_age_verification"`
	IsActive                bool            `json:"is_active"`
	Variants                []Variant       `json:"variants,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// Variant price is the product price plus PriceModifier.
type Variant struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Stock         int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
}

// ListResponse represents the paginated response of products.
// swagger:model ProductListResponse
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// category filter applied
	Category string `json:"category,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// total matching products
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// AdjustStockRequest payload of a manual stock correction.
// swagger:model AdjustStockRequest
type AdjustStockRequest struct {
	VariantID *string `json:"variant_id,omitempty" binding:"omitempty,uuid"`
	Delta     int     `json:"delta" binding:"required,ne=0,gte=-10000,lte=10000" example:"24"`
	Note      *string `json:"note,omitempty" binding:"omitempty,max=500"`
}

// StockLevel is the stock after an adjustment.
// swagger:model StockLevel
type StockLevel struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Stock     int     `json:"stock_quantity"`
}
