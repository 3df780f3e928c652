package cod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/cod-delivery/internal/db"
	"github.com/MikeMC777/cod-delivery/internal/sqlq"
)

var ErrNotFound = errors.New("cod collection not found")

// Tx is what the collection workflow runs inside one transaction.
type Tx interface {
	LockCollection(ctx context.Context, id string) (*Locked, error)
	MarkCollected(ctx context.Context, c Collect) error
	MarkOrderDelivered(ctx context.Context, orderID string) error
}

type Repository interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetByID(ctx context.Context, id string) (*Collection, error)
	List(ctx context.Context, f ListFilter) ([]Collection, int, error)
	Totals(ctx context.Context, deliveryPersonID string) ([]StatusTotals, error)
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

const collectionCols = `
	c.id, c.order_id, o.order_number, o.order_status, o.delivery_person_id,
	c.amount_to_collect::text, c.collected_amount::text, c.payment_method, c.collection_status,
	c.collected_at, c.collected_by, u.name, c.notes, c.created_at, c.updated_at`

const collectionFrom = `
	FROM cod_collections c
	JOIN orders o ON o.id = c.order_id
	LEFT JOIN users u ON u.id = c.collected_by`

func scanCollection(row pgx.Row, c *Collection) error {
	return row.Scan(
		&c.ID, &c.OrderID, &c.OrderNumber, &c.OrderStatus, &c.DeliveryPersonID,
		&c.AmountToCollect, &c.CollectedAmount, &c.PaymentMethod, &c.Status,
		&c.CollectedAt, &c.CollectedBy, &c.CollectorName, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Collection
	err := scanCollection(r.db.QueryRow(ctx, `SELECT `+collectionCols+collectionFrom+` WHERE c.id = $1`, id), &c)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return &c, nil
}

func filterOf(f ListFilter) *sqlq.Where {
	var w sqlq.Where
	w.AndIf(f.Status != "", "c.collection_status = ?", string(f.Status)).
		AndIf(f.DeliveryPersonID != "", "o.delivery_person_id = ?", f.DeliveryPersonID)
	return &w
}

func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Collection, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset := sqlq.NormalizePage(f.Limit, f.Offset)
	w := filterOf(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cod_collections c JOIN orders o ON o.id = c.order_id`+w.SQL(),
		w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count collections: %w", err)
	}

	where := w.SQL()
	page := w.Page(limit, offset)
	rows, err := r.db.Query(ctx, `SELECT `+collectionCols+collectionFrom+where+` ORDER BY c.created_at DESC`+page, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	out := []Collection{}
	for rows.Next() {
		var c Collection
		if err := scanCollection(rows, &c); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Totals groups collections by status, optionally for one delivery person.
func (r *PGRepo) Totals(ctx context.Context, deliveryPersonID string) ([]StatusTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	w := filterOf(ListFilter{DeliveryPersonID: deliveryPersonID})
	rows, err := r.db.Query(ctx, `
		SELECT c.collection_status, COUNT(*),
		       COALESCE(SUM(c.amount_to_collect), 0)::text,
		       COALESCE(SUM(c.collected_amount), 0)::text
		FROM cod_collections c
		JOIN orders o ON o.id = c.order_id`+w.SQL()+`
		GROUP BY c.collection_status
		ORDER BY c.collection_status`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("cod totals: %w", err)
	}
	defer rows.Close()

	var out []StatusTotals
	for rows.Next() {
		var t StatusTotals
		if err := rows.Scan(&t.Status, &t.Count, &t.AmountToCollect, &t.CollectedAmount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type pgTx struct{ tx pgx.Tx }

// LockCollection locks the collection and its order row together.
func (t *pgTx) LockCollection(ctx context.Context, id string) (*Locked, error) {
	var l Locked
	err := t.tx.QueryRow(ctx, `
		SELECT c.id, c.order_id, c.collection_status, c.amount_to_collect::text,
		       o.order_status, o.total::text
		FROM cod_collections c
		JOIN orders o ON o.id = c.order_id
		WHERE c.id = $1
		FOR UPDATE
	`, id).Scan(&l.ID, &l.OrderID, &l.Status, &l.AmountToCollect, &l.OrderStatus, &l.OrderTotal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock collection: %w", err)
	}
	return &l, nil
}

func (t *pgTx) MarkCollected(ctx context.Context, c Collect) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE cod_collections
		SET collected_amount = $2, payment_method = $3, collection_status = 'collected',
		    collected_at = NOW(), collected_by = $4, notes = $5, updated_at = NOW()
		WHERE id = $1 AND collection_status = 'pending'
	`, c.ID, c.CollectedAmount, c.Method, c.CollectedBy, c.Notes)
	if err != nil {
		return fmt.Errorf("mark collected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) MarkOrderDelivered(ctx context.Context, orderID string) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders
		SET order_status = 'delivered', payment_status = 'paid',
		    delivered_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, orderID)
	if err != nil {
		return fmt.Errorf("mark order delivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
