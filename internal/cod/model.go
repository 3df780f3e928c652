package cod

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCollected Status = "collected"
	StatusCancelled Status = "cancelled"
)

type Method string

const (
	MethodCash           Method = "cash"
	MethodCardOnDelivery Method = "card_on_delivery"
)

// Collection is the cash-on-delivery obligation attached to a COD order.
// Only pending collections can be collected; collected and cancelled are
// terminal.
type Collection struct {
	ID               string              `json:"collection_id"`
	OrderID          string              `json:"order_id"`
	OrderNumber      string              `json:"order_number"`
	OrderStatus      string              `json:"order_status"`
	DeliveryPersonID *string             `json:"delivery_person_id,omitempty"`
	AmountToCollect  decimal.Decimal     `json:"amount_to_collect"`
	CollectedAmount  decimal.NullDecimal `json:"collected_amount"`
	PaymentMethod    *Method             `json:"payment_method,omitempty"`
	Status           Status              `json:"collection_status"`
	CollectedAt      *time.Time          `json:"collected_at,omitempty"`
	CollectedBy      *string             `json:"collected_by,omitempty"`
	CollectorName    *string             `json:"collector_name,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// Locked is the collection row plus the order fields read under the same lock.
type Locked struct {
	ID              string
	OrderID         string
	Status          Status
	AmountToCollect decimal.Decimal
	OrderStatus     string
	OrderTotal      decimal.Decimal
}

// Collect is what gets written when money changes hands.
type Collect struct {
	ID              string
	CollectedAmount decimal.Decimal
	Method          Method
	CollectedBy     string
	Notes           *string
}

type ListFilter struct {
	Status           Status
	DeliveryPersonID string
	Limit            int
	Offset           int
}

// StatusTotals aggregates the collections in one status.
type StatusTotals struct {
	Status          Status          `json:"collection_status"`
	Count           int             `json:"count"`
	AmountToCollect decimal.Decimal `json:"amount_to_collect"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`
}

// Summary is the COD dashboard: one row per status plus grand totals.
type Summary struct {
	DeliveryPersonID *string         `json:"delivery_person_id,omitempty"`
	ByStatus         []StatusTotals  `json:"by_status"`
	TotalCount       int             `json:"total_count"`
	PendingAmount    decimal.Decimal `json:"pending_amount"`
	CollectedAmount  decimal.Decimal `json:"collected_amount"`
}
