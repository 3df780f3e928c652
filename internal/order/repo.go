package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cod-delivery/internal/db"
	"github.com/MikeMC777/cod-delivery/internal/sqlq"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrNoStockRow means the product (or variant) is missing or inactive.
	ErrNoStockRow = errors.New("product or variant not found")
)

// Tx is the set of statements the order workflows run inside one
// database transaction.
type Tx interface {
	LockStock(ctx context.Context, productID string, variantID *string) (*StockRow, error)
	UserAgeVerified(ctx context.Context, userID string) (bool, error)
	NextOrderNumber(ctx context.Context) (int64, error)
	InsertOrder(ctx context.Context, o *Order) error
	InsertItem(ctx context.Context, it *Item) error
	// AdjustStock adds delta to the authoritative stock field and reports
	// false when the row is missing or the result would be negative.
	AdjustStock(ctx context.Context, productID string, variantID *string, delta int) (bool, error)
	InsertMovement(ctx context.Context, m Movement) error
	InsertCODCollection(ctx context.Context, orderID string, amount decimal.Decimal) error
	LockOrder(ctx context.Context, orderID, userID string) (*Order, error)
	ItemsForOrder(ctx context.Context, orderID string) ([]Item, error)
	UpdateStatus(ctx context.Context, orderID string, u StatusUpdate) error
	CancelCODCollection(ctx context.Context, orderID string) error
}

type Repository interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, f ListFilter) ([]Order, int, error)
}

type PGRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPGRepo(pool *pgxpool.Pool, timeout time.Duration) *PGRepo {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PGRepo{db: pool, timeout: timeout}
}

func (r *PGRepo) InTx(ctx context.Context, fn func(tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

const orderCols = `
	o.id, o.order_number, o.user_id, o.subtotal::text, o.delivery_fee::text, o.total::text,
	o.payment_method, o.payment_status, o.order_status,
	o.delivery_latitude, o.delivery_longitude, o.delivery_address,
	o.notes, o.delivery_instructions, o.delivery_person_id, o.delivered_at,
	o.created_at, o.updated_at`

func scanOrder(row pgx.Row, o *Order, extra ...any) error {
	dest := []any{
		&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.DeliveryFee, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status,
		&o.DeliveryAddress.Latitude, &o.DeliveryAddress.Longitude, &o.DeliveryAddress.Address,
		&o.Notes, &o.DeliveryInstructions, &o.DeliveryPersonID, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

const itemsQuery = `
	SELECT oi.id, oi.order_id, oi.product_id, oi.variant_id, p.name_en, pv.name,
	       oi.quantity, oi.unit_price::text, oi.total_price::text
	FROM order_items oi
	JOIN products p ON p.id = oi.product_id
	LEFT JOIN product_variants pv ON pv.id = oi.variant_id
	WHERE oi.order_id = $1
	ORDER BY oi.created_at, oi.id`

func queryItems(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, orderID string) ([]Item, error) {
	rows, err := q.Query(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName, &it.VariantName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderCols+`, c.collection_status
		FROM orders o
		LEFT JOIN cod_collections c ON c.order_id = o.id
		WHERE o.id = $1
	`, id), &o, &o.CODStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.Items, err = queryItems(ctx, r.db, id); err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	return &o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset := sqlq.NormalizePage(f.Limit, f.Offset)
	var w sqlq.Where
	w.And("o.user_id = ?", userID).
		AndIf(f.Status != "", "o.order_status = ?", string(f.Status))

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	where := w.SQL()
	page := w.Page(limit, offset)
	rows, err := r.db.Query(ctx, `
		SELECT `+orderCols+`, c.collection_status
		FROM orders o
		LEFT JOIN cod_collections c ON c.order_id = o.id`+where+`
		ORDER BY o.created_at DESC`+page, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o, &o.CODStatus); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) LockStock(ctx context.Context, productID string, variantID *string) (*StockRow, error) {
	var s StockRow
	var err error
	if variantID == nil {
		err = t.tx.QueryRow(ctx, `
			SELECT p.id, p.name_en, p.price::text, p.stock_quantity, p.requires_age_verification
			FROM products p
			WHERE p.id = $1 AND p.is_active
			FOR UPDATE
		`, productID).Scan(&s.ProductID, &s.Name, &s.Price, &s.Available, &s.RequiresAgeVerification)
	} else {
		err = t.tx.QueryRow(ctx, `
			SELECT p.id, pv.id, p.name_en, p.price::text, pv.price_modifier::text,
			       pv.stock_quantity, p.requires_age_verification
			FROM products p
			JOIN product_variants pv ON pv.product_id = p.id AND pv.id = $2 AND pv.is_active
			WHERE p.id = $1 AND p.is_active
			FOR UPDATE OF pv
		`, productID, *variantID).Scan(&s.ProductID, &s.VariantID, &s.Name, &s.Price, &s.PriceModifier,
			&s.Available, &s.RequiresAgeVerification)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoStockRow
	}
	if err != nil {
		return nil, fmt.Errorf("lock stock: %w", err)
	}
	return &s, nil
}

func (t *pgTx) UserAgeVerified(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT is_age_verified FROM users WHERE id = $1`, userID).Scan(&ok)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return ok, err
}

func (t *pgTx) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := t.tx.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&n)
	return n, err
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO orders (
			id, order_number, user_id, subtotal, delivery_fee, total,
			payment_method, payment_status, order_status,
			delivery_latitude, delivery_longitude, delivery_address,
			notes, delivery_instructions, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW(),NOW())
		RETURNING created_at, updated_at
	`, o.ID, o.OrderNumber, o.UserID, o.Subtotal, o.DeliveryFee, o.Total,
		o.PaymentMethod, o.PaymentStatus, o.Status,
		o.DeliveryAddress.Latitude, o.DeliveryAddress.Longitude, o.DeliveryAddress.Address,
		o.Notes, o.DeliveryInstructions,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (t *pgTx) InsertItem(ctx context.Context, it *Item) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, unit_price, total_price, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
	`, it.ID, it.OrderID, it.ProductID, it.VariantID, it.Quantity, it.UnitPrice, it.TotalPrice)
	return err
}

func (t *pgTx) AdjustStock(ctx context.Context, productID string, variantID *string, delta int) (bool, error) {
	var err error
	var affected int64
	if variantID == nil {
		tag, e := t.tx.Exec(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + $2, updated_at = NOW()
			WHERE id = $1 AND stock_quantity + $2 >= 0
		`, productID, delta)
		err, affected = e, tag.RowsAffected()
	} else {
		tag, e := t.tx.Exec(ctx, `
			UPDATE product_variants
			SET stock_quantity = stock_quantity + $3
			WHERE id = $2 AND product_id = $1 AND stock_quantity + $3 >= 0
		`, productID, *variantID, delta)
		err, affected = e, tag.RowsAffected()
	}
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	return affected == 1, nil
}

func (t *pgTx) InsertMovement(ctx context.Context, m Movement) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO inventory_movements (product_id, variant_id, quantity, movement_type, reference_type, reference_id, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
	`, m.ProductID, m.VariantID, m.Quantity, m.Type, m.ReferenceType, m.ReferenceID, m.CreatedBy)
	return err
}

func (t *pgTx) InsertCODCollection(ctx context.Context, orderID string, amount decimal.Decimal) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cod_collections (order_id, amount_to_collect, collection_status, created_at, updated_at)
		VALUES ($1,$2,'pending',NOW(),NOW())
	`, orderID, amount)
	return err
}

func (t *pgTx) LockOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	var w sqlq.Where
	w.And("o.id = ?", orderID).AndIf(userID != "", "o.user_id = ?", userID)

	var o Order
	err := scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderCols+` FROM orders o`+w.SQL()+` FOR UPDATE`, w.Args()...), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return &o, nil
}

func (t *pgTx) ItemsForOrder(ctx context.Context, orderID string) ([]Item, error) {
	return queryItems(ctx, t.tx, orderID)
}

func (t *pgTx) UpdateStatus(ctx context.Context, orderID string, u StatusUpdate) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders
		SET order_status = $2,
		    payment_status = COALESCE($3, payment_status),
		    delivery_person_id = COALESCE($4, delivery_person_id),
		    delivered_at = CASE WHEN $5 THEN NOW() ELSE delivered_at END,
		    updated_at = NOW()
		WHERE id = $1
	`, orderID, u.Status, u.PaymentStatus, u.DeliveryPersonID, u.MarkDelivered)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelCODCollection overwrites the status whatever it was before.
func (t *pgTx) CancelCODCollection(ctx context.Context, orderID string) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE cod_collections
		SET collection_status = 'cancelled', updated_at = NOW()
		WHERE order_id = $1
	`, orderID)
	return err
}
