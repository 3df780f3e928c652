package order

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

// memStore is an in-memory Repository. InTx snapshots the whole state and
// restores it when fn fails, which is what a database rollback looks like
// from the outside.

type memProduct struct {
	Name   string
	Price  decimal.Decimal
	Stock  int
	Age    bool
	Active bool
}

type memVariant struct {
	ProductID string
	Name      string
	Modifier  decimal.Decimal
	Stock     int
	Active    bool
}

type memCOD struct {
	Amount decimal.Decimal
	Status string
}

type memState struct {
	products  map[string]memProduct
	variants  map[string]memVariant
	verified  map[string]bool
	orders    map[string]Order
	items     []Item
	movements []Movement
	cod       map[string]memCOD
}

func (s memState) clone() memState {
	return memState{
		products:  maps.Clone(s.products),
		variants:  maps.Clone(s.variants),
		verified:  maps.Clone(s.verified),
		orders:    maps.Clone(s.orders),
		items:     append([]Item(nil), s.items...),
		movements: append([]Movement(nil), s.movements...),
		cod:       maps.Clone(s.cod),
	}
}

type memStore struct {
	mu     sync.Mutex
	st     memState
	seq    int64
	failOn string
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{st: memState{
		products: map[string]memProduct{},
		variants: map[string]memVariant{},
		verified: map[string]bool{},
		orders:   map[string]Order{},
		cod:      map[string]memCOD{},
	}}
}

func (m *memStore) addProduct(id string, price string, stock int) {
	m.st.products[id] = memProduct{Name: "product " + id, Price: decimal.RequireFromString(price), Stock: stock, Active: true}
}

func (m *memStore) addVariant(id, productID, modifier string, stock int) {
	m.st.variants[id] = memVariant{ProductID: productID, Name: "variant " + id, Modifier: decimal.RequireFromString(modifier), Stock: stock, Active: true}
}

func (m *memStore) stockOf(productID string) int { return m.st.products[productID].Stock }
func (m *memStore) variantStock(id string) int { return m.st.variants[id].Stock }
func (m *memStore) setStatus(orderID string, s Status) {
	o := m.st.orders[orderID]
	o.Status = s
	m.st.orders[orderID] = o
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

func (m *memStore) GetByID(ctx context.Context, id string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.st.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c, ok := m.st.cod[id]; ok {
		s := c.Status
		o.CODStatus = &s
	}
	o.Items = nil
	for _, it := range m.st.items {
		if it.OrderID == id {
			o.Items = append(o.Items, it)
		}
	}
	return &o, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string, f ListFilter) ([]Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Order{}
	for _, o := range m.st.orders {
		if o.UserID == userID && (f.Status == "" || o.Status == f.Status) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return out, len(out), nil
}

type memTx struct{ m *memStore }

func (t *memTx) fail(op string) error {
	if t.m.failOn == op {
		return fmt.Errorf("%s: %w", op, errInjected)
	}
	return nil
}

func (t *memTx) LockStock(ctx context.Context, productID string, variantID *string) (*StockRow, error) {
	if err := t.fail("LockStock"); err != nil {
		return nil, err
	}
	p, ok := t.m.st.products[productID]
	if !ok || !p.Active {
		return nil, ErrNoStockRow
	}
	row := &StockRow{ProductID: productID, Name: p.Name, Price: p.Price, Available: p.Stock, RequiresAgeVerification: p.Age}
	if variantID != nil {
		v, ok := t.m.st.variants[*variantID]
		if !ok || !v.Active || v.ProductID != productID {
			return nil, ErrNoStockRow
		}
		id := *variantID
		row.VariantID, row.PriceModifier, row.Available = &id, v.Modifier, v.Stock
	}
	return row, nil
}

func (t *memTx) UserAgeVerified(ctx context.Context, userID string) (bool, error) {
	return t.m.st.verified[userID], nil
}

func (t *memTx) NextOrderNumber(ctx context.Context) (int64, error) {
	t.m.seq++
	return t.m.seq, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *Order) error {
	if err := t.fail("InsertOrder"); err != nil {
		return err
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	cp := *o
	cp.Items = nil
	t.m.st.orders[o.ID] = cp
	return nil
}

func (t *memTx) InsertItem(ctx context.Context, it *Item) error {
	if err := t.fail("InsertItem"); err != nil {
		return err
	}
	t.m.st.items = append(t.m.st.items, *it)
	return nil
}

func (t *memTx) AdjustStock(ctx context.Context, productID string, variantID *string, delta int) (bool, error) {
	if err := t.fail("AdjustStock"); err != nil {
		return false, err
	}
	if variantID != nil {
		v, ok := t.m.st.variants[*variantID]
		if !ok || v.ProductID != productID || v.Stock+delta < 0 {
			return false, nil
		}
		v.Stock += delta
		t.m.st.variants[*variantID] = v
		return true, nil
	}
	p, ok := t.m.st.products[productID]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	t.m.st.products[productID] = p
	return true, nil
}

func (t *memTx) InsertMovement(ctx context.Context, mv Movement) error {
	if err := t.fail("InsertMovement"); err != nil {
		return err
	}
	t.m.st.movements = append(t.m.st.movements, mv)
	return nil
}

func (t *memTx) InsertCODCollection(ctx context.Context, orderID string, amount decimal.Decimal) error {
	if err := t.fail("InsertCODCollection"); err != nil {
		return err
	}
	t.m.st.cod[orderID] = memCOD{Amount: amount, Status: "pending"}
	return nil
}

func (t *memTx) LockOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	o, ok := t.m.st.orders[orderID]
	if !ok || (userID != "" && o.UserID != userID) {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (t *memTx) ItemsForOrder(ctx context.Context, orderID string) ([]Item, error) {
	var out []Item
	for _, it := range t.m.st.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (t *memTx) UpdateStatus(ctx context.Context, orderID string, u StatusUpdate) error {
	if err := t.fail("UpdateStatus"); err != nil {
		return err
	}
	o, ok := t.m.st.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Status = u.Status
	if u.PaymentStatus != nil {
		o.PaymentStatus = *u.PaymentStatus
	}
	if u.DeliveryPersonID != nil {
		id := *u.DeliveryPersonID
		o.DeliveryPersonID = &id
	}
	if u.MarkDelivered {
		now := time.Now().UTC()
		o.DeliveredAt = &now
	}
	t.m.st.orders[orderID] = o
	return nil
}

func (t *memTx) CancelCODCollection(ctx context.Context, orderID string) error {
	if err := t.fail("CancelCODCollection"); err != nil {
		return err
	}
	if c, ok := t.m.st.cod[orderID]; ok {
		c.Status = "cancelled"
		t.m.st.cod[orderID] = c
	}
	return nil
}
