package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("cart item not found")
)

type Repository interface {
	// AddItem inserts a new line with quantity 1, or bumps the quantity
	// of the existing (user, product) line by 1. The bool reports whether
	// a new row was created.
	AddItem(ctx context.Context, userID, productID, newID string) (*CartItem, bool, error)
	Increment(ctx context.Context, id string) (*CartItem, error)
	// Decrement lowers the quantity by 1, or deletes the row when the
	// quantity is 1. The bool reports deletion; the item is nil then.
	Decrement(ctx context.Context, id string) (*CartItem, bool, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*CartItem, error)
	Remove(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]ListedItem, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const itemCols = `id, user_id, product_id, quantity, checkout_id, created_at, updated_at`

func scanItem(row pgx.Row, it *CartItem) error {
	return row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CheckoutID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *PGRepo) AddItem(ctx context.Context, userID, productID, newID string) (*CartItem, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Single upsert instead of find-then-increment, so two concurrent adds
	// cannot create duplicate lines. xmax = 0 only on freshly inserted rows.
	var it CartItem
	var inserted bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1,$2,$3,1,NOW(),NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1, updated_at = NOW()
		RETURNING `+itemCols+`, (xmax = 0)
	`, newID, userID, productID).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CheckoutID, &it.CreatedAt, &it.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, err
	}
	return &it, inserted, nil
}

func (r *PGRepo) Increment(ctx context.Context, id string) (*CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it CartItem
	err := scanItem(r.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = quantity + 1, updated_at = NOW()
		WHERE id=$1
		RETURNING `+itemCols+`
	`, id), &it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) Decrement(ctx context.Context, id string) (*CartItem, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var it CartItem
	err = scanItem(tx.QueryRow(ctx, `
		UPDATE cart_items SET quantity = quantity - 1, updated_at = NOW()
		WHERE id=$1 AND quantity > 1
		RETURNING `+itemCols+`
	`, id), &it)
	if err == nil {
		return &it, false, tx.Commit(ctx)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// quantity == 1 (or gone): the line is removed so it never reaches 0
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 0 {
		return nil, false, ErrNotFound
	}
	return nil, true, tx.Commit(ctx)
}

func (r *PGRepo) SetQuantity(ctx context.Context, id string, quantity int) (*CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it CartItem
	err := scanItem(r.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $2, updated_at = NOW()
		WHERE id=$1
		RETURNING `+itemCols+`
	`, id, quantity), &it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) Remove(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]ListedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.checkout_id, ci.created_at, ci.updated_at,
		       p.id, p.user_id, p.name, p.description, p.price::text, p.stock, p.weight_grams,
		       p.category, p.image_url, p.discount_pct, p.created_at, p.updated_at,
		       u.id, u.username, u.city
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN users u ON u.id = p.user_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListedItem
	for rows.Next() {
		var li ListedItem
		if err := rows.Scan(
			&li.ID, &li.UserID, &li.ProductID, &li.Quantity, &li.CheckoutID, &li.CreatedAt, &li.UpdatedAt,
			&li.Product.ID, &li.Product.UserID, &li.Product.Name, &li.Product.Description, &li.Product.Price,
			&li.Product.Stock, &li.Product.WeightGrams, &li.Product.Category, &li.Product.ImageURL,
			&li.Product.DiscountPct, &li.Product.CreatedAt, &li.Product.UpdatedAt,
			&li.Seller.ID, &li.Seller.Username, &li.Seller.City,
		); err != nil {
			return nil, err
		}
		li.Subtotal = Subtotal(li.Product.Price, li.Product.DiscountPct, li.Quantity)
		out = append(out, li)
	}
	return out, rows.Err()
}

// Subtotal computes price * quantity with the discount percentage applied.
// A price that fails to parse yields "0".
func Subtotal(price string, discountPct, quantity int) string {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return "0"
	}
	if discountPct > 0 {
		p = p.Mul(decimal.NewFromInt(int64(100 - discountPct))).Div(decimal.NewFromInt(100))
	}
	return p.Mul(decimal.NewFromInt(int64(quantity))).StringFixed(2)
}
