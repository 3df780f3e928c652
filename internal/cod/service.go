package cod

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
	"github.com/MikeMC777/cod-delivery/internal/auth"
	"github.com/MikeMC777/cod-delivery/internal/events"
)

// DefaultTolerance is the largest accepted gap between the amount owed and
// the amount handed over.
var DefaultTolerance = decimal.RequireFromString("0.01")

type Service struct {
	repo      Repository
	tolerance decimal.Decimal
	events    events.Publisher
}

func NewService(repo Repository, tolerance decimal.Decimal, pub events.Publisher) *Service {
	if tolerance.IsNegative() {
		tolerance = DefaultTolerance
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{repo: repo, tolerance: tolerance, events: pub}
}

// WithinTolerance is inclusive on both sides.
func WithinTolerance(expected, collected, tolerance decimal.Decimal) bool {
	return expected.Sub(collected).Abs().LessThanOrEqual(tolerance)
}

// Collect records the money for a pending collection and marks its order
// delivered and paid. A collection is collected at most once.
func (s *Service) Collect(ctx context.Context, p auth.Principal, collectionID string, req CollectRequest) (*Collection, error) {
	if req.CollectedAmount == nil || req.CollectedAmount.IsNegative() {
		return nil, apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"field": "collected_amount"})
	}
	collected := *req.CollectedAmount
	notFound := apperr.NotFound(apperr.CodeCollectionNotFound, apperr.Details{"collection_id": collectionID})

	var orderID string
	var expected decimal.Decimal
	err := s.repo.InTx(ctx, func(tx Tx) error {
		l, err := tx.LockCollection(ctx, collectionID)
		if errors.Is(err, ErrNotFound) {
			return notFound
		}
		if err != nil {
			return err
		}
		if l.OrderID != req.OrderID {
			return notFound
		}
		if l.Status != StatusPending {
			return apperr.BusinessRule(apperr.CodeCollectionProcessed, apperr.Details{
				"current_status": l.Status,
			})
		}
		if !WithinTolerance(l.AmountToCollect, collected, s.tolerance) {
			return apperr.BusinessRule(apperr.CodeAmountMismatch, apperr.Details{
				"expected":  l.AmountToCollect.StringFixed(2),
				"collected": collected.String(),
			})
		}

		if err := tx.MarkCollected(ctx, Collect{
			ID:              l.ID,
			CollectedAmount: collected,
			Method:          req.PaymentMethod,
			CollectedBy:     p.UserID,
			Notes:           req.Notes,
		}); err != nil {
			return fmt.Errorf("collect %s: %w", l.ID, err)
		}
		if err := tx.MarkOrderDelivered(ctx, l.OrderID); err != nil {
			return fmt.Errorf("deliver order %s: %w", l.OrderID, err)
		}
		orderID, expected = l.OrderID, l.AmountToCollect
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[cod] collected %s order=%s amount=%s by=%s", collectionID, orderID, collected, p.UserID)
	events.Emit(ctx, s.events, events.New(events.CODCollected, orderID, map[string]any{
		"collection_id":    collectionID,
		"expected":         expected.StringFixed(2),
		"collected_amount": collected.String(),
		"payment_method":   req.PaymentMethod,
		"collected_by":     p.UserID,
	}))

	c, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("reload collection: %w", err)
	}
	return c, nil
}

// scope pins delivery staff to their own orders; admins pick freely.
func scope(p auth.Principal, requested string) string {
	if p.IsAdmin() {
		return requested
	}
	return p.UserID
}

// List returns collections. Delivery staff only see orders assigned to them.
func (s *Service) List(ctx context.Context, p auth.Principal, f ListFilter) ([]Collection, int, error) {
	f.DeliveryPersonID = scope(p, f.DeliveryPersonID)
	return s.repo.List(ctx, f)
}

// Mine lists the collections of orders assigned to the caller.
func (s *Service) Mine(ctx context.Context, p auth.Principal, f ListFilter) ([]Collection, int, error) {
	f.DeliveryPersonID = p.UserID
	return s.repo.List(ctx, f)
}

func (s *Service) Summary(ctx context.Context, p auth.Principal, deliveryPersonID string) (*Summary, error) {
	who := scope(p, deliveryPersonID)
	totals, err := s.repo.Totals(ctx, who)
	if err != nil {
		return nil, err
	}

	sum := &Summary{ByStatus: totals, PendingAmount: decimal.Zero, CollectedAmount: decimal.Zero}
	if sum.ByStatus == nil {
		sum.ByStatus = []StatusTotals{}
	}
	if who != "" {
		sum.DeliveryPersonID = &who
	}
	for _, t := range totals {
		sum.TotalCount += t.Count
		switch t.Status {
		case StatusPending:
			sum.PendingAmount = sum.PendingAmount.Add(t.AmountToCollect)
		case StatusCollected:
			sum.CollectedAmount = sum.CollectedAmount.Add(t.CollectedAmount)
		}
	}
	return sum, nil
}
