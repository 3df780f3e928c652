package cod

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memOrder struct {
	Number           string
	Status           string
	PaymentStatus    string
	Total            decimal.Decimal
	DeliveryPersonID *string
	DeliveredAt      *time.Time
}

type memState struct {
	collections map[string]Collection
	orders      map[string]memOrder
}

func (s memState) clone() memState {
	return memState{collections: maps.Clone(s.collections), orders: maps.Clone(s.orders)}
}

// memStore rolls back to a snapshot when the transaction function fails.
type memStore struct {
	mu     sync.Mutex
	st     memState
	names  map[string]string
	failOn string
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{
		st:    memState{collections: map[string]Collection{}, orders: map[string]memOrder{}},
		names: map[string]string{},
	}
}

// addCOD seeds a pending collection for an order out for delivery.
func (m *memStore) addCOD(id, orderID, amount, deliveryPerson string) {
	total := decimal.RequireFromString(amount)
	o := memOrder{Number: "2026-" + id, Status: "out_for_delivery", PaymentStatus: "pending", Total: total}
	if deliveryPerson != "" {
		dp := deliveryPerson
		o.DeliveryPersonID = &dp
	}
	m.st.orders[orderID] = o
	now := time.Now().UTC()
	m.st.collections[id] = Collection{
		ID: id, OrderID: orderID, AmountToCollect: total, Status: StatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
}

func (m *memStore) setCODStatus(id string, s Status) {
	c := m.st.collections[id]
	c.Status = s
	m.st.collections[id] = c
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.st.clone()
	if err := fn(&memTx{m: m}); err != nil {
		m.st = snap
		return err
	}
	return nil
}

func (m *memStore) enrich(c Collection) Collection {
	o := m.st.orders[c.OrderID]
	c.OrderNumber, c.OrderStatus, c.DeliveryPersonID = o.Number, o.Status, o.DeliveryPersonID
	if c.CollectedBy != nil {
		if n, ok := m.names[*c.CollectedBy]; ok {
			c.CollectorName = &n
		}
	}
	return c
}

func (m *memStore) GetByID(ctx context.Context, id string) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.st.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = m.enrich(c)
	return &c, nil
}

func (m *memStore) matching(f ListFilter) []Collection {
	out := []Collection{}
	for _, c := range m.st.collections {
		c = m.enrich(c)
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.DeliveryPersonID != "" && (c.DeliveryPersonID == nil || *c.DeliveryPersonID != f.DeliveryPersonID) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) List(ctx context.Context, f ListFilter) ([]Collection, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matching(f)
	return out, len(out), nil
}

func (m *memStore) Totals(ctx context.Context, deliveryPersonID string) ([]StatusTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	by := map[Status]*StatusTotals{}
	for _, c := range m.matching(ListFilter{DeliveryPersonID: deliveryPersonID}) {
		t, ok := by[c.Status]
		if !ok {
			t = &StatusTotals{Status: c.Status}
			by[c.Status] = t
		}
		t.Count++
		t.AmountToCollect = t.AmountToCollect.Add(c.AmountToCollect)
		if c.CollectedAmount.Valid {
			t.CollectedAmount = t.CollectedAmount.Add(c.CollectedAmount.Decimal)
		}
	}
	var out []StatusTotals
	for _, t := range by {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

type memTx struct{ m *memStore }

func (t *memTx) fail(op string) error {
	if t.m.failOn == op {
		return fmt.Errorf("%s: %w", op, errInjected)
	}
	return nil
}

func (t *memTx) LockCollection(ctx context.Context, id string) (*Locked, error) {
	c, ok := t.m.st.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	o := t.m.st.orders[c.OrderID]
	return &Locked{
		ID: c.ID, OrderID: c.OrderID, Status: c.Status, AmountToCollect: c.AmountToCollect,
		OrderStatus: o.Status, OrderTotal: o.Total,
	}, nil
}

func (t *memTx) MarkCollected(ctx context.Context, in Collect) error {
	if err := t.fail("MarkCollected"); err != nil {
		return err
	}
	c, ok := t.m.st.collections[in.ID]
	if !ok || c.Status != StatusPending {
		return ErrNotFound
	}
	now := time.Now().UTC()
	by, method := in.CollectedBy, in.Method
	c.CollectedAmount = decimal.NewNullDecimal(in.CollectedAmount)
	c.PaymentMethod = &method
	c.Status = StatusCollected
	c.CollectedAt, c.CollectedBy, c.Notes, c.UpdatedAt = &now, &by, in.Notes, now
	t.m.st.collections[in.ID] = c
	return nil
}

func (t *memTx) MarkOrderDelivered(ctx context.Context, orderID string) error {
	if err := t.fail("MarkOrderDelivered"); err != nil {
		return err
	}
	o, ok := t.m.st.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	o.Status, o.PaymentStatus, o.DeliveredAt = "delivered", "paid", &now
	t.m.st.orders[orderID] = o
	return nil
}
