package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// Cancellable reports whether the customer may still cancel.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// next lists the moves an admin can make; cancellation and COD delivery
// have their own workflows.
var next = map[Status][]Status{
	StatusPending:        {StatusConfirmed},
	StatusConfirmed:      {StatusPreparing},
	StatusPreparing:      {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {StatusCompleted},
}

func (s Status) CanMoveTo(to Status) bool {
	for _, n := range next[s] {
		if n == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

type Address struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Order struct {
	ID                   string          `json:"order_id"`
	OrderNumber          string          `json:"order_number"`
	UserID               string          `json:"user_id"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"delivery_fee"`
	Total                decimal.Decimal `json:"total"`
	PaymentMethod        PaymentMethod   `json:"payment_method"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
	Status               Status          `json:"order_status"`
	DeliveryAddress      Address         `json:"delivery_address"`
	Notes                *string         `json:"notes,omitempty"`
	DeliveryInstructions *string         `json:"delivery_instructions,omitempty"`
	DeliveryPersonID     *string         `json:"delivery_person_id,omitempty"`
	CODStatus            *string         `json:"cod_status,omitempty"`
	DeliveredAt          *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	Items                []Item          `json:"items,omitempty"`
}

// Item prices are frozen at order time and never recomputed.
type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	VariantID   *string         `json:"variant_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	VariantName *string         `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// StockRow is the locked product (or variant) row an order line draws from.
type StockRow struct {
	ProductID               string
	VariantID               *string
	Name                    string
	Price                   decimal.Decimal
	PriceModifier           decimal.Decimal
	Available               int
	RequiresAgeVerification bool
}

type MovementType string

const (
	MovementSale   MovementType = "sale"
	MovementReturn MovementType = "return"
)

const (
	RefOrder             = "order"
	RefOrderCancellation = "order_cancellation"
)

// Movement is one append-only inventory audit row.
type Movement struct {
	ProductID     string
	VariantID     *string
	Quantity      int
	Type          MovementType
	ReferenceType string
	ReferenceID   string
	CreatedBy     string
}

// StatusUpdate is applied to the orders row; nil fields are left as is.
type StatusUpdate struct {
	Status           Status
	PaymentStatus    *PaymentStatus
	DeliveryPersonID *string
	MarkDelivered    bool
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
