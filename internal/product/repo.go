// Package product provides the catalog repository: browsing active products
// with their variants and manual stock corrections.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/cod-delivery/internal/db"
	"github.com/MikeMC777/cod-delivery/internal/sqlq"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrNegativeStock is returned when an adjustment would take stock below zero.
	ErrNegativeStock = errors.New("stock cannot go below zero")
)

type Query struct {
	Q        string
	Category string
	InStock  bool
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, int, error)
	AdjustStock(ctx context.Context, productID string, variantID *string, delta int, by string) (*StockLevel, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const productCols = `
	p.id, p.name_en, p.name_ar, p.name_fr, p.description, p.category, p.price::text,
	p.stock_quantity, p.requires_age_verification, p.is_active, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.NameEN, &p.NameAR, &p.NameFR, &p.Description, &p.Category, &p.Price,
		&p.Stock, &p.RequiresAgeVerification, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productCols+` FROM products p WHERE p.id = $1 AND p.is_active`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, name, price_modifier::text, stock_quantity, is_active
		FROM product_variants
		WHERE product_id = $1 AND is_active
		ORDER BY name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get variants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.PriceModifier, &v.Stock, &v.IsActive); err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	return &p, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset := sqlq.NormalizePage(q.Limit, q.Offset)
	search := strings.TrimSpace(q.Q)

	var w sqlq.Where
	w.And("p.is_active").
		AndIf(search != "", "(p.name_en ILIKE '%'||?||'%' OR p.name_fr ILIKE '%'||?||'%' OR p.name_ar ILIKE '%'||?||'%')",
			search, search, search).
		AndIf(q.Category != "", "p.category = ?", q.Category).
		AndIf(q.InStock, `(p.stock_quantity > 0 OR EXISTS (
			SELECT 1 FROM product_variants pv WHERE pv.product_id = p.id AND pv.is_active AND pv.stock_quantity > 0))`)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+w.SQL(), w.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	where := w.SQL()
	page := w.Page(limit, offset)
	rows, err := r.db.Query(ctx, `SELECT `+productCols+` FROM products p`+where+` ORDER BY p.created_at DESC`+page, w.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// AdjustStock applies a manual correction and records it as an inventory
// movement in the same transaction.
func (r *PGRepo) AdjustStock(ctx context.Context, productID string, variantID *string, delta int, by string) (*StockLevel, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	level := StockLevel{ProductID: productID, VariantID: variantID}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if variantID == nil {
			err = tx.QueryRow(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity + $2, updated_at = NOW()
				WHERE id = $1 AND stock_quantity + $2 >= 0
				RETURNING stock_quantity
			`, productID, delta).Scan(&level.Stock)
		} else {
			err = tx.QueryRow(ctx, `
				UPDATE product_variants
				SET stock_quantity = stock_quantity + $3
				WHERE id = $2 AND product_id = $1 AND stock_quantity + $3 >= 0
				RETURNING stock_quantity
			`, productID, *variantID, delta).Scan(&level.Stock)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missingOrNegative(ctx, tx, productID, variantID)
		}
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO inventory_movements (product_id, variant_id, quantity, movement_type, reference_type, reference_id, created_by, created_at)
			VALUES ($1,$2,$3,'adjustment','manual',NULL,$4,NOW())
		`, productID, variantID, delta, by)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// missingOrNegative tells apart an unknown row from a refused decrement.
func (r *PGRepo) missingOrNegative(ctx context.Context, tx pgx.Tx, productID string, variantID *string) error {
	var exists bool
	var err error
	if variantID == nil {
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	} else {
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM product_variants WHERE id = $2 AND product_id = $1)`,
			productID, *variantID).Scan(&exists)
	}
	if err != nil {
		return fmt.Errorf("check stock row: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNegativeStock
}
