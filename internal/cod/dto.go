package cod

import "github.com/shopspring/decimal"

// CollectRequest payload of a COD collection. The collector is the caller.
// swagger:model CollectRequest
type CollectRequest struct {
	OrderID         string           `json:"order_id" binding:"required,uuid" example:"0b6f2a52-3f55-4a38-9a55-2d6fbc1e5f31"`
	CollectedAmount *decimal.Decimal `json:"collected_amount" binding:"required" swaggertype:"number" example:"195.00"`
	PaymentMethod   Method           `json:"payment_method" binding:"required,oneof=cash card_on_delivery" example:"cash"`
	Notes           *string          `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// ListResponse paginated collections.
// swagger:model CollectionListResponse
type ListResponse struct {
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int          `json:"total"`
	Items []Collection `json:"items"`
}
