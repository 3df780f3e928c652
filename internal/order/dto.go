package order

// CreateOrderItem payload of one order line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string  `json:"product_id" binding:"required,uuid" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	VariantID *string `json:"variant_id,omitempty" binding:"omitempty,uuid" example:"9b0c7d1e-0f4a-4c52-8a51-2b9d7c3e1f10"`
	Quantity  int     `json:"quantity" binding:"required,gt=0,lte=100" example:"2"`
}

// AddressInput delivery location.
// swagger:model AddressInput
type AddressInput struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90" example:"33.5731"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180" example:"-7.5898"`
	Address   string   `json:"address" binding:"required,max=500" example:"12 Rue Ibn Batouta, Casablanca"`
}

// CreateOrderRequest payload of order creation. The caller comes from the
// bearer token, never from the body.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items                []CreateOrderItem `json:"items" binding:"required,min=1,max=50,dive"`
	DeliveryAddress      AddressInput      `json:"delivery_address"`
	PaymentMethod        PaymentMethod     `json:"payment_method" binding:"required,oneof=cod card" example:"cod"`
	Notes                *string           `json:"notes,omitempty" binding:"omitempty,max=500"`
	DeliveryInstructions *string           `json:"delivery_instructions,omitempty" binding:"omitempty,max=500"`
}

// UpdateStatusRequest admin status change.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status           Status  `json:"status" binding:"required,oneof=confirmed preparing out_for_delivery delivered completed" example:"confirmed"`
	DeliveryPersonID *string `json:"delivery_person_id,omitempty" binding:"omitempty,uuid"`
}

// ListResponse paginated orders of the caller.
// swagger:model OrderListResponse
type ListResponse struct {
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int     `json:"total"`
	Items []Order `json:"items"`
}
