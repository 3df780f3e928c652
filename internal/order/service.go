package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/events"
)

type Service struct {
	repo    Repository
	pricing Pricing
	events  events.Publisher
	now     func() time.Time
}

func NewService(repo Repository, pricing Pricing, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{repo: repo, pricing: pricing, events: pub, now: time.Now}
}

type stockKey struct {
	product string
	variant string
}

func keyOf(productID string, variantID *string) stockKey {
	k := stockKey{product: productID}
	if variantID != nil {
		k.variant = *variantID
	}
	return k
}

type line struct {
	req   CreateOrderItem
	row   *StockRow
	unit  decimal.Decimal
	total decimal.Decimal
}

// Create places an order for the caller. Either the order, its items, the
// stock decrements, the inventory movements and (for COD) the pending
// collection are all committed, or nothing is.
func (s *Service) Create(ctx context.Context, p auth.Principal, req CreateOrderRequest) (*Order, error) {
	var created *Order

	err := s.repo.InTx(ctx, func(tx Tx) error {
		lines := make([]line, 0, len(req.Items))
		reserved := map[stockKey]int{}
		subtotal := decimal.Zero
		needsAge := false

		for i, it := range req.Items {
			row, err := tx.LockStock(ctx, it.ProductID, it.VariantID)
			if errors.Is(err, ErrNoStockRow) {
				return apperr.BusinessRule(apperr.CodeProductNotFound, lineDetails(i, it, nil))
			}
			if err != nil {
				return err
			}

			// earlier lines for the same SKU already hold part of the stock
			k := keyOf(it.ProductID, it.VariantID)
			available := row.Available - reserved[k]
			if available < it.Quantity {
				return apperr.BusinessRule(apperr.CodeInsufficientStock, lineDetails(i, it, apperr.Details{
					"product_name": row.Name,
					"available":    available,
					"requested":    it.Quantity,
				}))
			}
			reserved[k] += it.Quantity

			unit := UnitPrice(row.Price, row.PriceModifier)
			total := LineTotal(unit, it.Quantity)
			subtotal = subtotal.Add(total)
			needsAge = needsAge || row.RequiresAgeVerification
			lines = append(lines, line{req: it, row: row, unit: unit, total: total})
		}

		if needsAge {
			ok, err := tx.UserAgeVerified(ctx, p.UserID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.BusinessRule(apperr.CodeAgeVerification, nil)
			}
		}

		q := s.pricing.Quote(subtotal)
		if req.PaymentMethod == PaymentCOD && !s.pricing.CODAllowed(q.Total) {
			return apperr.BusinessRule(apperr.CodeCODLimitExceeded, apperr.Details{
				"total":          q.Total.StringFixed(2),
				"max_cod_amount": s.pricing.MaxCODAmount.StringFixed(2),
			})
		}

		seq, err := tx.NextOrderNumber(ctx)
		if err != nil {
			return fmt.Errorf("order number: %w", err)
		}
		o := &Order{
			ID:            uuid.NewString(),
			OrderNumber:   FormatOrderNumber(s.now().Year(), seq),
			UserID:        p.UserID,
			Subtotal:      q.Subtotal,
			DeliveryFee:   q.DeliveryFee,
			Total:         q.Total,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: PaymentPending,
			Status:        StatusPending,
			DeliveryAddress: Address{
				Latitude:  deref(req.DeliveryAddress.Latitude),
				Longitude: deref(req.DeliveryAddress.Longitude),
				Address:   req.DeliveryAddress.Address,
			},
			Notes:                req.Notes,
			DeliveryInstructions: req.DeliveryInstructions,
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, l := range lines {
			it := Item{
				ID:          uuid.NewString(),
				OrderID:     o.ID,
				ProductID:   l.req.ProductID,
				VariantID:   l.req.VariantID,
				ProductName: l.row.Name,
				Quantity:    l.req.Quantity,
				UnitPrice:   l.unit,
				TotalPrice:  l.total,
			}
			if err := tx.InsertItem(ctx, &it); err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
			ok, err := tx.AdjustStock(ctx, l.req.ProductID, l.req.VariantID, -l.req.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.BusinessRule(apperr.CodeInsufficientStock, lineDetails(i, l.req, apperr.Details{
					"requested": l.req.Quantity,
				}))
			}
			if err := tx.InsertMovement(ctx, Movement{
				ProductID:     l.req.ProductID,
				VariantID:     l.req.VariantID,
				Quantity:      -l.req.Quantity,
				Type:          MovementSale,
				ReferenceType: RefOrder,
				ReferenceID:   o.ID,
				CreatedBy:     p.UserID,
			}); err != nil {
				return fmt.Errorf("insert movement: %w", err)
			}
			o.Items = append(o.Items, it)
		}

		if o.PaymentMethod == PaymentCOD {
			if err := tx.InsertCODCollection(ctx, o.ID, o.Total); err != nil {
				return fmt.Errorf("insert cod collection: %w", err)
			}
			pending := "pending"
			o.CODStatus = &pending
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[order] created %s number=%s total=%s method=%s", created.ID, created.OrderNumber, created.Total, created.PaymentMethod)
	events.Emit(ctx, s.events, events.New(events.OrderCreated, created.ID, map[string]any{
		"order_number":   created.OrderNumber,
		"user_id":        created.UserID,
		"total":          created.Total.StringFixed(2),
		"payment_method": created.PaymentMethod,
	}))
	return s.refetch(ctx, created), nil
}

// Cancel returns the stock of a pending or confirmed order owned by the
// caller and cancels its COD collection, if any.
func (s *Service) Cancel(ctx context.Context, p auth.Principal, orderID string) (*Order, error) {
	var cancelled *Order

	err := s.repo.InTx(ctx, func(tx Tx) error {
		o, err := tx.LockOrder(ctx, orderID, p.UserID)
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(apperr.CodeOrderNotFound, apperr.Details{"order_id": orderID})
		}
		if err != nil {
			return err
		}
		if !o.Status.Cancellable() {
			return apperr.BusinessRule(apperr.CodeOrderNotCancellable, apperr.Details{
				"current_status": o.Status,
			})
		}

		items, err := tx.ItemsForOrder(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		for _, it := range items {
			ok, err := tx.AdjustStock(ctx, it.ProductID, it.VariantID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("restock %s: stock row missing", it.ProductID)
			}
			if err := tx.InsertMovement(ctx, Movement{
				ProductID:     it.ProductID,
				VariantID:     it.VariantID,
				Quantity:      it.Quantity,
				Type:          MovementReturn,
				ReferenceType: RefOrderCancellation,
				ReferenceID:   o.ID,
				CreatedBy:     p.UserID,
			}); err != nil {
				return fmt.Errorf("insert movement: %w", err)
			}
		}

		paymentCancelled := PaymentCancelled
		if err := tx.UpdateStatus(ctx, o.ID, StatusUpdate{Status: StatusCancelled, PaymentStatus: &paymentCancelled}); err != nil {
			return err
		}
		if o.PaymentMethod == PaymentCOD {
			if err := tx.CancelCODCollection(ctx, o.ID); err != nil {
				return fmt.Errorf("cancel cod collection: %w", err)
			}
		}

		o.Status, o.PaymentStatus, o.Items = StatusCancelled, PaymentCancelled, items
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[order] cancelled %s", cancelled.ID)
	events.Emit(ctx, s.events, events.New(events.OrderCancelled, cancelled.ID, map[string]any{
		"user_id": cancelled.UserID,
	}))
	return s.refetch(ctx, cancelled), nil
}

// UpdateStatus moves an order one step along the delivery pipeline.
// COD orders reach delivered only through collection.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, orderID string, req UpdateStatusRequest) (*Order, error) {
	var updated *Order

	err := s.repo.InTx(ctx, func(tx Tx) error {
		o, err := tx.LockOrder(ctx, orderID, "")
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(apperr.CodeOrderNotFound, apperr.Details{"order_id": orderID})
		}
		if err != nil {
			return err
		}
		codDelivery := req.Status == StatusDelivered && o.PaymentMethod == PaymentCOD
		if !o.Status.CanMoveTo(req.Status) || codDelivery {
			return apperr.BusinessRule(apperr.CodeInvalidTransition, apperr.Details{
				"current_status":   o.Status,
				"requested_status": req.Status,
			})
		}

		u := StatusUpdate{Status: req.Status, DeliveryPersonID: req.DeliveryPersonID}
		if req.Status == StatusDelivered {
			paid := PaymentPaid
			u.PaymentStatus = &paid
			u.MarkDelivered = true
		}
		if err := tx.UpdateStatus(ctx, o.ID, u); err != nil {
			return err
		}
		o.Status = req.Status
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[order] %s -> %s by %s", updated.ID, updated.Status, p.UserID)
	events.Emit(ctx, s.events, events.New(events.OrderStatus, updated.ID, map[string]any{
		"status": updated.Status,
	}))
	return s.refetch(ctx, updated), nil
}

// Get returns an order with its items. Customers only see their own orders.
func (s *Service) Get(ctx context.Context, p auth.Principal, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeOrderNotFound, apperr.Details{"order_id": orderID})
	}
	if err != nil {
		return nil, err
	}
	if o.UserID != p.UserID && !p.IsAdmin() {
		return nil, apperr.NotFound(apperr.CodeOrderNotFound, apperr.Details{"order_id": orderID})
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, p auth.Principal, f ListFilter) ([]Order, int, error) {
	return s.repo.ListByUser(ctx, p.UserID, f)
}

// refetch reads the committed order back. The write already committed, so
// a failed read falls back to what the workflow built in memory.
func (s *Service) refetch(ctx context.Context, fallback *Order) *Order {
	o, err := s.repo.GetByID(ctx, fallback.ID)
	if err != nil {
		log.Printf("[order] refetch %s failed: %v", fallback.ID, err)
		return fallback
	}
	return o
}

func lineDetails(i int, it CreateOrderItem, extra apperr.Details) apperr.Details {
	d := apperr.Details{"line": i, "product_id": it.ProductID}
	if it.VariantID != nil {
		d["variant_id"] = *it.VariantID
	}
	for k, v := range extra {
		d[k] = v
	}
	return d
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
